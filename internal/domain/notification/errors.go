package notification

import "errors"

var (
	// ErrNotFound is returned when notification doesn't exist
	ErrNotFound = errors.New("notification not found")

	ErrInternal = errors.New("internal error")
)
