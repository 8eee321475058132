// Package view is an interactive terminal viewer for a source panel.
//
// The viewer draws the panel's segments with a line number gutter and a
// header row per region. The active region is tinted. Keys:
//
//	j, Down / k, Up      scroll one line
//	PgDn / PgUp          scroll one page
//	g, Home / G, End     first / last line
//	n, Tab / p, Backtab  next / previous region header
//	Enter                select the region under the cursor
//	q, Esc, Ctrl-C       quit
package view
