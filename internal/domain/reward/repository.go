package reward

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, r *Reward) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reward, error)
	List(ctx context.Context, onlyActive bool) ([]Reward, error)
	Update(ctx context.Context, r *Reward) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasVouchers(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

// RewardRepository provides reward catalog persistence.
type RewardRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

const rewardColumns = `
	id, name, description, points_required, type, value, min_order_value,
	max_discount_amount, tier_required, stock, valid_from, valid_until,
	is_active, code_prefix, created_at, updated_at`

func (r *RewardRepository) Create(ctx context.Context, rw *Reward) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO rewards (
			id, name, description, points_required, type, value, min_order_value,
			max_discount_amount, tier_required, stock, valid_from, valid_until,
			is_active, code_prefix, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, rw.ID, rw.Name, rw.Description, rw.PointsRequired, rw.Type, rw.Value,
		rw.MinOrderValue, rw.MaxDiscountAmount, rw.TierRequired, rw.Stock,
		rw.ValidFrom, rw.ValidUntil, rw.IsActive, rw.CodePrefix, rw.CreatedAt, rw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert reward", ErrInternal)
	}

	return nil
}

func (r *RewardRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reward, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rw Reward
	err := r.db.GetContext(ctx2, &rw, `
		SELECT `+rewardColumns+`
		FROM rewards
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get reward", ErrInternal)
	}

	return &rw, nil
}

func (r *RewardRepository) List(ctx context.Context, onlyActive bool) ([]Reward, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT ` + rewardColumns + `
		FROM rewards`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY points_required ASC, created_at DESC`

	rewards := make([]Reward, 0)
	if err := r.db.SelectContext(ctx2, &rewards, query); err != nil {
		return nil, fmt.Errorf("%w: list rewards", ErrInternal)
	}

	return rewards, nil
}

func (r *RewardRepository) Update(ctx context.Context, rw *Reward) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE rewards
		SET name = $2, description = $3, points_required = $4, type = $5,
		    value = $6, min_order_value = $7, max_discount_amount = $8,
		    tier_required = $9, stock = $10, valid_from = $11, valid_until = $12,
		    is_active = $13, code_prefix = $14, updated_at = now()
		WHERE id = $1
	`, rw.ID, rw.Name, rw.Description, rw.PointsRequired, rw.Type, rw.Value,
		rw.MinOrderValue, rw.MaxDiscountAmount, rw.TierRequired, rw.Stock,
		rw.ValidFrom, rw.ValidUntil, rw.IsActive, rw.CodePrefix)
	if err != nil {
		return fmt.Errorf("%w: update reward", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *RewardRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE rewards
		SET is_active = false, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate reward", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete hard-deletes a reward. Only valid when no vouchers reference it;
// the service checks HasVouchers first and deactivates instead.
func (r *RewardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `DELETE FROM rewards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete reward", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *RewardRepository) HasVouchers(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx2, &exists, `
		SELECT EXISTS(SELECT 1 FROM vouchers WHERE reward_id = $1)
	`, id)
	if err != nil {
		return false, fmt.Errorf("%w: check vouchers", ErrInternal)
	}

	return exists, nil
}

// DecrementStockTx takes one unit of finite stock in a single conditional
// statement. Never read-check-then-write: concurrent redemptions race on
// this row and exactly one may take the last unit.
func (r *RewardRepository) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE rewards
		SET stock = stock - 1, updated_at = now()
		WHERE id = $1 AND stock > 0
	`, id)
	if err != nil {
		return fmt.Errorf("%w: decrement stock", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrOutOfStock
	}

	return nil
}
