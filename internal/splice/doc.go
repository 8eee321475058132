// Package splice replaces the text of one region of a document in place.
//
// Basic usage:
//
//	res, err := splice.Splice("foo\nbar", region.NewBoundary(1, 0, 1, 3), "hello\nworld")
//	// res.Text == "hello\nworld\nbar"
//	// res.Boundary == region.NewBoundary(1, 0, 2, 5)
//
// End column:
//
// By default the new end column is the length of the replacement's last
// line. For a single-line replacement starting at a column other than 0 this
// falls short of where the region really ends. WithExactEndColumn adds the
// start column in that case. The default is kept for compatibility with
// producers that depend on it.
package splice
