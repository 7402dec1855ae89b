package loyalty

import "errors"

var (
	// ErrInsufficientBalance is returned when a debit would drive the
	// balance below zero
	ErrInsufficientBalance = errors.New("insufficient point balance")

	// ErrAlreadyAwarded is returned when an earn entry already exists for
	// the order (exactly-once award guard)
	ErrAlreadyAwarded = errors.New("points already awarded for order")

	// ErrInvalidPoints is returned when a delta of 0 or an unknown type is
	// appended
	ErrInvalidPoints = errors.New("invalid points delta")

	// ErrCustomerNotFound is returned when the balance row doesn't exist
	ErrCustomerNotFound = errors.New("customer not found")

	ErrInternal = errors.New("internal error")
)
