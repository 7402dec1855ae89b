package customer

import "errors"

var (
	// ErrNotFound is returned when customer doesn't exist
	ErrNotFound = errors.New("customer not found")

	// ErrEmailExists is returned when registering an email that is taken
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with a wrong email/password,
	// including login attempts against guest records (no password set)
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInternal = errors.New("internal error")
)
