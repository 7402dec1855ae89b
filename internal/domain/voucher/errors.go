package voucher

import "errors"

var (
	// ErrNotFound is returned when voucher doesn't exist
	ErrNotFound = errors.New("voucher not found")

	// ErrCodeCollision signals the generated code already exists; the
	// redemption transaction is retried with a fresh code
	ErrCodeCollision = errors.New("voucher code collision")

	// ErrCodeGeneration is returned when retries are exhausted without
	// producing a unique code
	ErrCodeGeneration = errors.New("could not generate unique voucher code")

	// ErrNotUsable is returned when marking a voucher that is used or expired
	ErrNotUsable = errors.New("voucher not usable")

	ErrInternal = errors.New("internal error")
)
