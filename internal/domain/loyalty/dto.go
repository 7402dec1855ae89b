package loyalty

import (
	"time"

	"github.com/google/uuid"
)

// AdjustRequest for manual admin ledger adjustments
type AdjustRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Points     int    `json:"points" validate:"required"`
	Reason     string `json:"reason" validate:"required,min=3,max=255"`
}

// EntryResponse for API responses
type EntryResponse struct {
	ID          uuid.UUID `json:"id"`
	Points      int       `json:"points"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OrderID     string    `json:"order_id,omitempty"`
	RewardID    string    `json:"reward_id,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// ToEntryResponse converts entity to response
func ToEntryResponse(e *Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:          e.ID,
		Points:      e.Points,
		Type:        string(e.Type),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}

	if e.OrderID.Valid {
		resp.OrderID = e.OrderID.UUID.String()
	}
	if e.RewardID.Valid {
		resp.RewardID = e.RewardID.UUID.String()
	}

	return resp
}

// DashboardResponse is the customer-facing loyalty projection
type DashboardResponse struct {
	Balance           int              `json:"balance"`
	Tier              string           `json:"tier"`
	Benefits          Benefits         `json:"benefits"`
	TotalSpent        int64            `json:"total_spent"`
	OrdersCount       int              `json:"orders_count"`
	NextTier          string           `json:"next_tier,omitempty"`
	NextTierRemaining int64            `json:"next_tier_remaining,omitempty"`
	Recent            []*EntryResponse `json:"recent"`
}

// AuditResponse reports reconciliation between the ledger and the cached
// balance for one customer
type AuditResponse struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	CachedBalance int       `json:"cached_balance"`
	LedgerSum     int       `json:"ledger_sum"`
	Consistent    bool      `json:"consistent"`
}
