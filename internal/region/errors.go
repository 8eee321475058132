package region

import (
	"errors"
	"fmt"
)

// Errors returned when validating regions.
var (
	// ErrMalformedBoundary indicates a boundary whose start is after its end,
	// or which references lines or columns outside the document.
	ErrMalformedBoundary = errors.New("malformed boundary")

	// ErrOverlappingRegions indicates two regions whose row ranges intersect.
	ErrOverlappingRegions = errors.New("overlapping regions")

	// ErrEmptyKey indicates a region with an empty key.
	ErrEmptyKey = errors.New("empty region key")
)

// BoundaryError describes a single malformed boundary.
type BoundaryError struct {
	Key      Key
	Boundary Boundary
	Reason   string
	Err      error
}

// Error implements the error interface.
func (e *BoundaryError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("region %q %s: %s: %v", e.Key, e.Boundary, e.Reason, e.Err)
	}
	return fmt.Sprintf("boundary %s: %s: %v", e.Boundary, e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// OverlapError describes two regions whose row ranges intersect.
type OverlapError struct {
	First, Second Key
}

// Error implements the error interface.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("regions %q and %q: %v", e.First, e.Second, ErrOverlappingRegions)
}

// Is allows errors.Is to match OverlapError with ErrOverlappingRegions.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlappingRegions
}
