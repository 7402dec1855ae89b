package reward

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/domain/customer"
)

// Type represents what a reward grants when redeemed (matches reward_type enum)
type Type string

const (
	TypeDiscountPercentage Type = "discount_percentage"
	TypeDiscountFixed      Type = "discount_fixed"
	TypeFreeShipping       Type = "free_shipping"
	TypeGift               Type = "gift"
)

// IsValid checks if the reward type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeDiscountPercentage, TypeDiscountFixed, TypeFreeShipping, TypeGift:
		return true
	}
	return false
}

// Reward is a catalog offer redeemable for points. Stock is nullable:
// NULL means unlimited. Rewards with issued vouchers are soft-deactivated,
// never deleted.
type Reward struct {
	ID             uuid.UUID      `db:"id"`
	Name           string         `db:"name"`
	Description    sql.NullString `db:"description"`
	PointsRequired int            `db:"points_required"`
	Type           Type           `db:"type"`

	// Value is a percentage for discount_percentage, an amount (KZT) for
	// discount_fixed and gift, unused for free_shipping.
	Value int64 `db:"value"`

	MinOrderValue     sql.NullInt64  `db:"min_order_value"`
	MaxDiscountAmount sql.NullInt64  `db:"max_discount_amount"`
	TierRequired      sql.NullString `db:"tier_required"`
	Stock             sql.NullInt64  `db:"stock"`

	ValidFrom  sql.NullTime `db:"valid_from"`
	ValidUntil sql.NullTime `db:"valid_until"`

	IsActive   bool   `db:"is_active"`
	CodePrefix string `db:"code_prefix"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CheckRedeemable evaluates redemption eligibility for a customer at a
// point in time. Returns nil when redeemable, otherwise the specific
// typed failure. The checks run in the contract order: balance, tier gate,
// stock, validity window, activation.
func (r *Reward) CheckRedeemable(c *customer.Customer, now time.Time) error {
	if c.LoyaltyPoints < r.PointsRequired {
		shortfall := r.PointsRequired - c.LoyaltyPoints
		return fmt.Errorf("%w: need %d more points", ErrInsufficientPoints, shortfall)
	}

	if r.TierRequired.Valid {
		required := customer.Tier(r.TierRequired.String)
		if c.LoyaltyTier.Rank() < required.Rank() {
			return fmt.Errorf("%w: requires %s tier", ErrTierTooLow, required)
		}
	}

	if r.Stock.Valid && r.Stock.Int64 <= 0 {
		return ErrOutOfStock
	}

	if r.ValidFrom.Valid && now.Before(r.ValidFrom.Time) {
		return ErrNotYetValid
	}
	if r.ValidUntil.Valid && now.After(r.ValidUntil.Time) {
		return ErrExpired
	}

	if !r.IsActive {
		return ErrInactive
	}

	return nil
}
