package order

import (
	"time"

	"github.com/google/uuid"
)

// CreateOrderRequest for POST /admin/orders
type CreateOrderRequest struct {
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Total         int64  `json:"total" validate:"required,gt=0"`
}

// UpdateStatusRequest for PATCH /admin/orders/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	CustomerEmail string    `json:"customer_email"`
	Total         int64     `json:"total"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToOrderResponse converts entity to response
func ToOrderResponse(o *Order) *OrderResponse {
	return &OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
