package loyalty

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

// earnOrderConstraint is the partial unique index enforcing one earn entry
// per order (the exactly-once award guard).
const earnOrderConstraint = "ledger_entries_earn_order_uniq"

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	AppendTx(ctx context.Context, tx *sqlx.Tx, e *Entry) error
	AppendClampedTx(ctx context.Context, tx *sqlx.Tx, e *Entry) (int, error)
	BalanceOf(ctx context.Context, customerID uuid.UUID) (int, error)
	SumOf(ctx context.Context, customerID uuid.UUID) (int, error)
	HistoryOf(ctx context.Context, customerID uuid.UUID, filters HistoryFilters) ([]Entry, error)
	EarnForOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID) (*Entry, error)
	Search(ctx context.Context, filters SearchFilters) ([]Entry, error)
}

// LedgerRepository provides the append-only points ledger and the cached
// balance on the customer aggregate. Every append writes the immutable
// entry and adjusts the cached balance in the same transaction; a negative
// delta is applied with a conditional UPDATE so the balance can never be
// observed below zero, regardless of concurrent requests.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, e *Entry) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	if err := r.AppendTx(ctx2, tx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

// AppendTx appends a ledger entry within an external transaction. The
// balance update and the entry insert commit or roll back together.
func (r *LedgerRepository) AppendTx(ctx context.Context, tx *sqlx.Tx, e *Entry) error {
	if e.Points == 0 || !e.Type.IsValid() {
		return ErrInvalidPoints
	}

	var result sql.Result
	var err error
	if e.Points < 0 {
		result, err = tx.ExecContext(ctx, `
			UPDATE customers
			SET loyalty_points = loyalty_points + $2, updated_at = now()
			WHERE id = $1 AND loyalty_points + $2 >= 0
		`, e.CustomerID, e.Points)
	} else {
		result, err = tx.ExecContext(ctx, `
			UPDATE customers
			SET loyalty_points = loyalty_points + $2, updated_at = now()
			WHERE id = $1
		`, e.CustomerID, e.Points)
	}
	if err != nil {
		return fmt.Errorf("%w: update balance", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		if e.Points < 0 {
			return ErrInsufficientBalance
		}
		return ErrCustomerNotFound
	}

	return r.insertEntry(ctx, tx, e)
}

// AppendClampedTx debits up to -e.Points, clamping at zero instead of
// failing, and records the actually-applied delta in the ledger. Used by
// the refund path where the spec requires the balance to bottom out at 0.
// Returns the applied (non-positive) delta; 0 means nothing was written.
func (r *LedgerRepository) AppendClampedTx(ctx context.Context, tx *sqlx.Tx, e *Entry) (int, error) {
	if e.Points >= 0 || !e.Type.IsValid() {
		return 0, ErrInvalidPoints
	}

	var res struct {
		Prev int `db:"prev"`
		Next int `db:"next"`
	}
	err := tx.GetContext(ctx, &res, `
		UPDATE customers c
		SET loyalty_points = GREATEST(c.loyalty_points + $2, 0), updated_at = now()
		FROM (SELECT loyalty_points AS prev FROM customers WHERE id = $1 FOR UPDATE) p
		WHERE c.id = $1
		RETURNING p.prev, c.loyalty_points AS next
	`, e.CustomerID, e.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCustomerNotFound
		}
		return 0, fmt.Errorf("%w: clamped balance update", ErrInternal)
	}

	applied := res.Next - res.Prev
	if applied == 0 {
		return 0, nil
	}

	e.Points = applied
	if err := r.insertEntry(ctx, tx, e); err != nil {
		return 0, err
	}

	return applied, nil
}

func (r *LedgerRepository) insertEntry(ctx context.Context, tx *sqlx.Tx, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if strings.TrimSpace(e.Description) == "" {
		e.Description = "point balance adjustment"
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (
			id, customer_id, points, type, description, order_id, reward_id, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.CustomerID, e.Points, e.Type, e.Description, e.OrderID, e.RewardID, e.Metadata)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == earnOrderConstraint {
			return ErrAlreadyAwarded
		}
		return fmt.Errorf("%w: insert ledger entry", ErrInternal)
	}

	return nil
}

func (r *LedgerRepository) BalanceOf(ctx context.Context, customerID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT loyalty_points FROM customers WHERE id = $1`, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCustomerNotFound
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}

	return balance, nil
}

// SumOf re-sums the ledger for a customer. The result must always equal the
// cached balance; the audit endpoint reports any drift.
func (r *LedgerRepository) SumOf(ctx context.Context, customerID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int
	err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(points), 0) FROM ledger_entries WHERE customer_id = $1
	`, customerID)
	if err != nil {
		return 0, fmt.Errorf("%w: sum ledger", ErrInternal)
	}

	return sum, nil
}

func (r *LedgerRepository) HistoryOf(ctx context.Context, customerID uuid.UUID, filters HistoryFilters) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	base := `
		SELECT id, customer_id, points, type, description, order_id, reward_id, metadata, created_at
		FROM ledger_entries
		WHERE customer_id = $1`
	args := make([]interface{}, 0, 6)
	args = append(args, customerID)
	idx := 2

	if filters.Type != nil {
		base += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, *filters.Type)
		idx++
	}
	if filters.DateFrom != nil {
		base += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		base += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.DateTo)
		idx++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}

	base += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filters.Offset)

	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx2, &entries, base, args...); err != nil {
		return nil, fmt.Errorf("%w: ledger history", ErrInternal)
	}

	return entries, nil
}

// EarnForOrderTx returns the earn entry for an order, if any. The refund
// path replays this entry instead of recomputing the award at the current
// tier.
func (r *LedgerRepository) EarnForOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID) (*Entry, error) {
	var e Entry
	err := tx.GetContext(ctx, &e, `
		SELECT id, customer_id, points, type, description, order_id, reward_id, metadata, created_at
		FROM ledger_entries
		WHERE order_id = $1 AND type = 'earn'
	`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: earn lookup", ErrInternal)
	}

	return &e, nil
}

func (r *LedgerRepository) Search(ctx context.Context, filters SearchFilters) ([]Entry, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	base := `
		SELECT id, customer_id, points, type, description, order_id, reward_id, metadata, created_at
		FROM ledger_entries
		WHERE 1=1`
	args := make([]interface{}, 0, 8)
	idx := 1

	if filters.CustomerID != nil {
		base += fmt.Sprintf(" AND customer_id = $%d", idx)
		args = append(args, *filters.CustomerID)
		idx++
	}
	if filters.Type != nil {
		base += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, *filters.Type)
		idx++
	}
	if filters.OrderID != nil {
		base += fmt.Sprintf(" AND order_id = $%d", idx)
		args = append(args, *filters.OrderID)
		idx++
	}
	if filters.RewardID != nil {
		base += fmt.Sprintf(" AND reward_id = $%d", idx)
		args = append(args, *filters.RewardID)
		idx++
	}
	if filters.DateFrom != nil {
		base += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		base += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.DateTo)
		idx++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	base = strings.TrimSpace(base) + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filters.Offset)

	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx2, &entries, base, args...); err != nil {
		return nil, fmt.Errorf("%w: search ledger", ErrInternal)
	}

	return entries, nil
}
