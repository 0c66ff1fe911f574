package buddy

import "errors"

var (
	// ErrInvalidSize size must be > 0
	ErrInvalidSize = errors.New("buddy: size must be greater than zero")
	// ErrNoSpace no free partition large enough for the request
	ErrNoSpace = errors.New("buddy: no free partition large enough")
	// ErrStaleAllocation the allocation was already freed, or belongs to another buffer
	ErrStaleAllocation = errors.New("buddy: stale allocation")
	// ErrClosed the buffer was closed
	ErrClosed = errors.New("buddy: buffer is closed")
)
