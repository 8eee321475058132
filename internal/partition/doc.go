// Package partition groups tokenized lines into alternating unassigned and
// region segments for rendering.
//
// For a document of seven lines with regions on lines 2-3 and 5-6 the
// result is five segments:
//
//	unassigned [0-1)  line 1
//	region     [1-3)  lines 2-3
//	unassigned [3-4)  line 4
//	region     [4-6)  lines 5-6
//	unassigned [6-7)  line 7
//
// Unassigned segments may be empty. At most one segment is active.
package partition
