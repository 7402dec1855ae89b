package customer

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the issued token with the customer profile.
type AuthResponse struct {
	AccessToken string            `json:"access_token"`
	Customer    *CustomerResponse `json:"customer"`
}

// CustomerResponse is the API view of a customer.
type CustomerResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name,omitempty"`
	LoyaltyPoints int        `json:"loyalty_points"`
	LoyaltyTier   Tier       `json:"loyalty_tier"`
	TotalSpent    int64      `json:"total_spent"`
	OrdersCount   int        `json:"orders_count"`
	LastOrderDate *time.Time `json:"last_order_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToCustomerResponse converts entity to response
func ToCustomerResponse(c *Customer) *CustomerResponse {
	resp := &CustomerResponse{
		ID:            c.ID,
		Email:         c.Email,
		LoyaltyPoints: c.LoyaltyPoints,
		LoyaltyTier:   c.LoyaltyTier,
		TotalSpent:    c.TotalSpent,
		OrdersCount:   c.OrdersCount,
		CreatedAt:     c.CreatedAt,
	}
	if c.FullName.Valid {
		resp.FullName = c.FullName.String
	}
	if c.LastOrderDate.Valid {
		resp.LastOrderDate = &c.LastOrderDate.Time
	}
	return resp
}
