package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the order lifecycle state (matches order_status enum)
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// transitions is the allowed state machine. Cancellation is reachable from
// every state except cancelled itself: cancelling a completed order is what
// triggers the refund path. Completed is otherwise terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCancelled},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is an allowed move
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is the purchase record this core orchestrates loyalty effects for.
// Total is in KZT minor-free units (whole tenge).
type Order struct {
	ID            uuid.UUID `db:"id"`
	Number        string    `db:"number"`
	CustomerEmail string    `db:"customer_email"`
	Total         int64     `db:"total"`
	Status        Status    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
