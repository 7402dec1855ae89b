package order

import "errors"

var (
	// ErrNotFound is returned when order doesn't exist
	ErrNotFound = errors.New("order not found")

	// ErrInvalidStatus is returned for an unrecognized target status
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition is returned when the state machine forbids the move
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInternal = errors.New("internal error")
)
