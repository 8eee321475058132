package panel

import (
	"errors"

	"github.com/dshills/storysource/internal/splice"
)

// Errors returned by panel transitions.
var (
	// ErrStaleBoundary indicates an edit for a region that is not the
	// current active region.
	ErrStaleBoundary = splice.ErrStaleBoundary

	// ErrNotEditable indicates an edit was attempted with no active region.
	ErrNotEditable = errors.New("no editable region")

	// ErrUnknownMessage indicates a message type Dispatch cannot handle.
	ErrUnknownMessage = errors.New("unknown message")

	// ErrUnknownRegion indicates a key not present in the current index.
	ErrUnknownRegion = errors.New("unknown region")
)
