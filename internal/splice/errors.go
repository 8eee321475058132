package splice

import "errors"

// ErrStaleBoundary indicates a boundary that does not address lines of the
// current document, usually because the document changed underneath it.
var ErrStaleBoundary = errors.New("stale boundary")
