package booking

import "errors"

var (
	ErrCapacityExceeded = errors.New("event date at capacity")
	ErrStudioNotFound   = errors.New("studio not found")
)
