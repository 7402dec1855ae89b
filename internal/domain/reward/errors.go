package reward

import "errors"

var (
	// ErrNotFound is returned when reward doesn't exist
	ErrNotFound = errors.New("reward not found")

	// ErrInsufficientPoints is returned when the customer's balance does
	// not cover the reward; the wrapped message reports the shortfall
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrTierTooLow is returned when the reward's tier gate is not met
	ErrTierTooLow = errors.New("tier too low")

	// ErrOutOfStock is returned when a finite stock is exhausted
	ErrOutOfStock = errors.New("reward out of stock")

	// ErrNotYetValid is returned before the reward's validity window opens
	ErrNotYetValid = errors.New("reward not yet valid")

	// ErrExpired is returned after the reward's validity window closed
	ErrExpired = errors.New("reward expired")

	// ErrInactive is returned for deactivated rewards
	ErrInactive = errors.New("reward inactive")

	ErrInternal = errors.New("internal error")
)
