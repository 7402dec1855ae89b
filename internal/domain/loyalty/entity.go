package loyalty

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryType defines supported ledger entry types.
type EntryType string

const (
	EntryTypeEarn        EntryType = "earn"
	EntryTypeRedeem      EntryType = "redeem"
	EntryTypeBonus       EntryType = "bonus"
	EntryTypeExpire      EntryType = "expire"
	EntryTypeRefund      EntryType = "refund"
	EntryTypeAdminAdjust EntryType = "admin_adjust"
)

// IsValid checks if the entry type is known
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeEarn, EntryTypeRedeem, EntryTypeBonus, EntryTypeExpire,
		EntryTypeRefund, EntryTypeAdminAdjust:
		return true
	}
	return false
}

// EntryMeta is the typed metadata payload attached to a ledger entry.
// Kept as a struct rather than an open map so the ledger stays checkable.
type EntryMeta struct {
	VoucherCode string     `json:"voucher_code,omitempty"`
	AdminID     *uuid.UUID `json:"admin_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
}

// Entry is an immutable ledger row. Entries are never updated or deleted
// after creation; the running sum per customer equals the cached balance.
type Entry struct {
	ID          uuid.UUID       `db:"id"`
	CustomerID  uuid.UUID       `db:"customer_id"`
	Points      int             `db:"points"`
	Type        EntryType       `db:"type"`
	Description string          `db:"description"`
	OrderID     uuid.NullUUID   `db:"order_id"`
	RewardID    uuid.NullUUID   `db:"reward_id"`
	Metadata    json.RawMessage `db:"metadata"`
	CreatedAt   time.Time       `db:"created_at"`
}

// SetMeta encodes metadata to JSON
func (e *Entry) SetMeta(meta *EntryMeta) {
	if meta != nil {
		e.Metadata, _ = json.Marshal(meta)
	}
}

// Meta decodes the metadata payload
func (e *Entry) Meta() *EntryMeta {
	var meta EntryMeta
	if e.Metadata != nil {
		_ = json.Unmarshal(e.Metadata, &meta)
	}
	return &meta
}

// HistoryFilters controls ledger history queries.
type HistoryFilters struct {
	Type     *EntryType
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// SearchFilters provides admin-facing ledger filtering.
type SearchFilters struct {
	CustomerID *uuid.UUID
	Type       *EntryType
	OrderID    *uuid.UUID
	RewardID   *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}
