package voucher

import (
	"time"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/domain/reward"
)

// RedeemRequest for POST /loyalty/rewards/redeem
type RedeemRequest struct {
	RewardID string `json:"reward_id" validate:"required,uuid"`
}

// ConsumeRequest for POST /admin/vouchers/{code}/use
type ConsumeRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

// VoucherResponse reports a voucher with its effective (lazy-expired) status.
type VoucherResponse struct {
	ID            uuid.UUID  `json:"id"`
	RewardID      uuid.UUID  `json:"reward_id"`
	RewardName    string     `json:"reward_name,omitempty"`
	Code          string     `json:"code"`
	Status        Status     `json:"status"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	UsedInOrderID *uuid.UUID `json:"used_in_order_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToVoucherResponse converts entity to response, resolving lazy expiry
func ToVoucherResponse(v *Voucher, now time.Time) *VoucherResponse {
	resp := &VoucherResponse{
		ID:        v.ID,
		RewardID:  v.RewardID,
		Code:      v.Code,
		Status:    v.EffectiveStatus(now),
		ExpiresAt: v.ExpiresAt,
		CreatedAt: v.CreatedAt,
	}
	if v.UsedAt.Valid {
		resp.UsedAt = &v.UsedAt.Time
	}
	if v.UsedInOrderID.Valid {
		resp.UsedInOrderID = &v.UsedInOrderID.UUID
	}
	return resp
}

// RedeemResponse is the redemption receipt.
type RedeemResponse struct {
	Voucher     *VoucherResponse `json:"voucher"`
	PointsSpent int              `json:"points_spent"`
	BalanceLeft int              `json:"balance_left"`
	RewardName  string           `json:"reward_name"`
	RewardType  reward.Type      `json:"reward_type"`
	RewardValue int64            `json:"reward_value"`
}
