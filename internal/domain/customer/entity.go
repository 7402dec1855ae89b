package customer

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier represents a loyalty tier derived from lifetime spend
// (matches loyalty_tier enum)
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Rank returns the tier's position for ordering comparisons (tier gates)
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 0
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	}
	return -1
}

// IsValid checks if tier is a known value
func (t Tier) IsValid() bool {
	return t.Rank() >= 0
}

// Customer represents a customer account with its loyalty projection.
// LoyaltyPoints is a cached balance: the running sum of the customer's
// ledger entries must equal it at all times. LoyaltyTier must equal the
// tier policy applied to TotalSpent after every mutation.
type Customer struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	FullName     sql.NullString `db:"full_name"`

	LoyaltyPoints int   `db:"loyalty_points"`
	LoyaltyTier   Tier  `db:"loyalty_tier"`
	TotalSpent    int64 `db:"total_spent"`
	OrdersCount   int   `db:"orders_count"`

	LastOrderDate sql.NullTime `db:"last_order_date"`

	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsGuest returns true for customers created from guest orders. Guests have
// no password and never earn points.
func (c *Customer) IsGuest() bool {
	return !c.PasswordHash.Valid || c.PasswordHash.String == ""
}

// NormalizeEmail lower-cases and trims an email for lookups and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
