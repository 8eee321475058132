// Package region holds the named, non-overlapping ranges of a source
// document and the coordinate types that describe them.
//
// A Boundary is expressed in 1-indexed lines and 0-indexed columns. Columns
// count grapheme clusters, so a column addresses what a reader sees as one
// character regardless of its UTF-8 encoding.
//
// An Index is built once per document version and never mutated. Its
// OrderedKeys, sorted by start line with ties kept in insertion order, are
// computed at construction and drive partitioning:
//
//	idx := region.NewIndex(
//	    region.Entry{Key: "Button@primary", Boundary: region.NewBoundary(3, 0, 5, 2)},
//	    region.Entry{Key: "Button@secondary", Boundary: region.NewBoundary(7, 0, 9, 2)},
//	)
//	if err := idx.Validate(text); err != nil {
//	    // reject the document
//	}
//
// Index.Validate reports malformed boundaries and overlapping row ranges.
// Partitioning and splicing assume a validated index.
package region
