package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

// codeConstraint is the unique index on vouchers.code.
const codeConstraint = "vouchers_code_key"

type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, v *Voucher) error
	GetByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	GetByCode(ctx context.Context, code string) (*Voucher, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, status *Status) ([]Voucher, error)
	MarkUsed(ctx context.Context, id, orderID uuid.UUID, now time.Time) error
}

// VoucherRepository provides voucher persistence.
type VoucherRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *VoucherRepository {
	return &VoucherRepository{db: db}
}

const voucherColumns = `id, customer_id, reward_id, code, status, expires_at, used_at, used_in_order_id, created_at`

// CreateTx inserts a voucher within the redemption transaction. A collision
// on the code index returns ErrCodeCollision so the caller can retry the
// whole transaction with a fresh code.
func (r *VoucherRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, v *Voucher) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO vouchers (id, customer_id, reward_id, code, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.CustomerID, v.RewardID, v.Code, v.Status, v.ExpiresAt, v.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == codeConstraint {
			return ErrCodeCollision
		}
		return fmt.Errorf("%w: insert voucher", ErrInternal)
	}

	return nil
}

func (r *VoucherRepository) GetByID(ctx context.Context, id uuid.UUID) (*Voucher, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var v Voucher
	err := r.db.GetContext(ctx2, &v, `
		SELECT `+voucherColumns+` FROM vouchers WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get voucher", ErrInternal)
	}

	return &v, nil
}

func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var v Voucher
	err := r.db.GetContext(ctx2, &v, `
		SELECT `+voucherColumns+` FROM vouchers WHERE code = $1
	`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get voucher by code", ErrInternal)
	}

	return &v, nil
}

// ListByCustomer returns a customer's vouchers, newest first. A status
// filter matches the effective status, so filtering on "expired" includes
// active rows past their expiry and "active" excludes them.
func (r *VoucherRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, status *Status) ([]Voucher, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE customer_id = $1`
	args := []interface{}{customerID}

	if status != nil {
		switch *status {
		case StatusActive:
			query += ` AND status = 'active' AND expires_at > now()`
		case StatusExpired:
			query += ` AND (status = 'expired' OR (status = 'active' AND expires_at <= now()))`
		default:
			query += ` AND status = $2`
			args = append(args, *status)
		}
	}

	query += ` ORDER BY created_at DESC`

	vouchers := make([]Voucher, 0)
	if err := r.db.SelectContext(ctx2, &vouchers, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list vouchers", ErrInternal)
	}

	return vouchers, nil
}

// MarkUsed transitions an active, unexpired voucher to used, recording the
// consuming order. The conditional WHERE makes the transition forward-only;
// a used or expired voucher is never reactivated.
func (r *VoucherRepository) MarkUsed(ctx context.Context, id, orderID uuid.UUID, now time.Time) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE vouchers
		SET status = 'used', used_at = $2, used_in_order_id = $3
		WHERE id = $1 AND status = 'active' AND expires_at > $2
	`, id, now, orderID)
	if err != nil {
		return fmt.Errorf("%w: mark voucher used", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotUsable
	}

	return nil
}
