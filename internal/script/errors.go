package script

import "errors"

var (
	// ErrHookClosed is returned when a closed hook is called.
	ErrHookClosed = errors.New("script hook closed")

	// ErrBadResult indicates navigate returned something other than a
	// string or nil.
	ErrBadResult = errors.New("navigate must return a string or nil")
)
