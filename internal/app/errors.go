package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoSource indicates that no story source file was given.
	ErrNoSource = errors.New("no source file")

	// ErrNoActiveRegion indicates an edit without an active region.
	ErrNoActiveRegion = errors.New("no active region")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "edit", "write")
	Target string // Target of the operation (e.g., file path, region key)
	Err    error  // Underlying error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
