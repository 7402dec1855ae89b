package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type defines supported notification types.
type Type string

const (
	TypeTierUpgraded   Type = "tier_upgraded"
	TypeTierDowngraded Type = "tier_downgraded"
	TypeVoucherIssued  Type = "voucher_issued"
	TypeOrderCompleted Type = "order_completed"
)

// Notification is an in-app feed entry.
type Notification struct {
	ID         uuid.UUID `db:"id"`
	CustomerID uuid.UUID `db:"customer_id"`
	Type       Type      `db:"type"`
	Title      string    `db:"title"`
	Message    string    `db:"message"`
	IsRead     bool      `db:"is_read"`
	CreatedAt  time.Time `db:"created_at"`
}
