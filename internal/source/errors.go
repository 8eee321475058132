package source

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRegions indicates a regions file that is not a mapping of
	// keys to boundaries.
	ErrInvalidRegions = errors.New("invalid regions file")

	// ErrDuplicateRegion indicates a key declared twice in a regions file.
	ErrDuplicateRegion = errors.New("duplicate region key")
)

// ParseError reports a problem at a location in a regions file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	path := e.Path
	if path == "" {
		path = "<regions>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
