// Package render writes a partitioned document as text.
//
// Each line is prefixed by a marker column and a line number gutter.
// Region segments start with a header naming the region; lines of the
// active region carry a ">" marker. When colour is enabled, tokens are
// coloured from a chroma style.
package render
