package voucher

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the stored voucher state. Expiry is lazy: an active row past its
// expires_at is reported as expired without a background sweep, so
// EffectiveStatus is the one to show and check, never the raw column.
type Status string

const (
	StatusActive  Status = "active"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusExpired:
		return true
	}
	return false
}

// Voucher is an issued redemption code. Codes are globally unique.
// UsedInOrderID records which order consumed the voucher at checkout.
type Voucher struct {
	ID            uuid.UUID     `db:"id"`
	CustomerID    uuid.UUID     `db:"customer_id"`
	RewardID      uuid.UUID     `db:"reward_id"`
	Code          string        `db:"code"`
	Status        Status        `db:"status"`
	ExpiresAt     time.Time     `db:"expires_at"`
	UsedAt        sql.NullTime  `db:"used_at"`
	UsedInOrderID uuid.NullUUID `db:"used_in_order_id"`
	CreatedAt     time.Time     `db:"created_at"`
}

// EffectiveStatus resolves lazy expiry at a point in time
func (v *Voucher) EffectiveStatus(now time.Time) Status {
	if v.Status == StatusActive && now.After(v.ExpiresAt) {
		return StatusExpired
	}
	return v.Status
}

// Usable reports whether the voucher can still be applied
func (v *Voucher) Usable(now time.Time) bool {
	return v.EffectiveStatus(now) == StatusActive
}
