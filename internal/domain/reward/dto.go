package reward

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateRewardRequest for POST /admin/rewards
type CreateRewardRequest struct {
	Name              string     `json:"name" validate:"required,min=2,max=200"`
	Description       string     `json:"description" validate:"omitempty,max=2000"`
	PointsRequired    int        `json:"points_required" validate:"gte=0"`
	Type              string     `json:"type" validate:"required,reward_type"`
	Value             int64      `json:"value" validate:"gte=0"`
	MinOrderValue     *int64     `json:"min_order_value" validate:"omitempty,gte=0"`
	MaxDiscountAmount *int64     `json:"max_discount_amount" validate:"omitempty,gte=0"`
	TierRequired      string     `json:"tier_required" validate:"omitempty,tier"`
	Stock             *int64     `json:"stock" validate:"omitempty,gte=0"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
	CodePrefix        string     `json:"code_prefix" validate:"required,min=2,max=12,alphanum"`
}

// UpdateRewardRequest for PUT /admin/rewards/{id}. Nil fields are kept as-is.
type UpdateRewardRequest struct {
	Name              *string    `json:"name" validate:"omitempty,min=2,max=200"`
	Description       *string    `json:"description" validate:"omitempty,max=2000"`
	PointsRequired    *int       `json:"points_required" validate:"omitempty,gte=0"`
	Type              *string    `json:"type" validate:"omitempty,reward_type"`
	Value             *int64     `json:"value" validate:"omitempty,gte=0"`
	MinOrderValue     *int64     `json:"min_order_value" validate:"omitempty,gte=0"`
	MaxDiscountAmount *int64     `json:"max_discount_amount" validate:"omitempty,gte=0"`
	TierRequired      *string    `json:"tier_required" validate:"omitempty,tier"`
	Stock             *int64     `json:"stock" validate:"omitempty,gte=0"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
	IsActive          *bool      `json:"is_active"`
	CodePrefix        *string    `json:"code_prefix" validate:"omitempty,min=2,max=12,alphanum"`
}

// RewardResponse is the catalog view of a reward. CanRedeem and Reason are
// only populated on the customer-facing catalog.
type RewardResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	PointsRequired    int        `json:"points_required"`
	Type              Type       `json:"type"`
	Value             int64      `json:"value"`
	MinOrderValue     *int64     `json:"min_order_value,omitempty"`
	MaxDiscountAmount *int64     `json:"max_discount_amount,omitempty"`
	TierRequired      string     `json:"tier_required,omitempty"`
	Stock             *int64     `json:"stock,omitempty"`
	ValidFrom         *time.Time `json:"valid_from,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	IsActive          bool       `json:"is_active"`
	CodePrefix        string     `json:"code_prefix"`
	CanRedeem         *bool      `json:"can_redeem,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToRewardResponse converts entity to response
func ToRewardResponse(r *Reward) *RewardResponse {
	resp := &RewardResponse{
		ID:             r.ID,
		Name:           r.Name,
		PointsRequired: r.PointsRequired,
		Type:           r.Type,
		Value:          r.Value,
		IsActive:       r.IsActive,
		CodePrefix:     r.CodePrefix,
		CreatedAt:      r.CreatedAt,
	}

	if r.Description.Valid {
		resp.Description = r.Description.String
	}
	if r.MinOrderValue.Valid {
		resp.MinOrderValue = &r.MinOrderValue.Int64
	}
	if r.MaxDiscountAmount.Valid {
		resp.MaxDiscountAmount = &r.MaxDiscountAmount.Int64
	}
	if r.TierRequired.Valid {
		resp.TierRequired = r.TierRequired.String
	}
	if r.Stock.Valid {
		resp.Stock = &r.Stock.Int64
	}
	if r.ValidFrom.Valid {
		resp.ValidFrom = &r.ValidFrom.Time
	}
	if r.ValidUntil.Valid {
		resp.ValidUntil = &r.ValidUntil.Time
	}

	return resp
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
