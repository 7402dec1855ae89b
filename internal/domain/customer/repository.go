package customer

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

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ApplySpendTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64, tier Tier, orderDate time.Time) error
	ReverseSpendTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64, tier Tier) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Customer, error)
}

// CustomerRepository provides customer aggregate persistence.
type CustomerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `
	id, email, password_hash, full_name, loyalty_points, loyalty_tier,
	total_spent, orders_count, last_order_date, is_active, created_at, updated_at`

func (r *CustomerRepository) Create(ctx context.Context, c *Customer) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c.Email = NormalizeEmail(c.Email)

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO customers (
			id, email, password_hash, full_name, loyalty_points, loyalty_tier,
			total_spent, orders_count, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.Email, c.PasswordHash, c.FullName, c.LoyaltyPoints, c.LoyaltyTier,
		c.TotalSpent, c.OrdersCount, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailExists
		}
		return fmt.Errorf("%w: insert customer", ErrInternal)
	}

	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err := r.db.GetContext(ctx2, &c, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get customer", ErrInternal)
	}

	return &c, nil
}

// GetByEmail looks up a customer case-insensitively. Emails are stored
// lower-cased, so the lookup normalizes rather than scanning with lower().
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err := r.db.GetContext(ctx2, &c, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE email = $1
	`, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get customer by email", ErrInternal)
	}

	return &c, nil
}

// Deactivate soft-deletes a customer. Rows are never hard-deleted: the
// ledger and vouchers keep referencing them for audit.
func (r *CustomerRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE customers
		SET is_active = false, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("%w: deactivate customer", ErrInternal)
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

// ApplySpendTx records a completed order on the aggregate: spend, order
// count, last order date and the recomputed tier go in one UPDATE so the
// tier invariant can't be observed broken.
func (r *CustomerRepository) ApplySpendTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64, tier Tier, orderDate time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET total_spent = total_spent + $2,
		    orders_count = orders_count + 1,
		    last_order_date = $3,
		    loyalty_tier = $4,
		    updated_at = now()
		WHERE id = $1
	`, id, amount, orderDate, tier)
	if err != nil {
		return fmt.Errorf("%w: apply spend", ErrInternal)
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

// ReverseSpendTx unwinds a cancelled order's stats, floored at zero.
func (r *CustomerRepository) ReverseSpendTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, amount int64, tier Tier) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET total_spent = GREATEST(total_spent - $2, 0),
		    orders_count = GREATEST(orders_count - 1, 0),
		    loyalty_tier = $3,
		    updated_at = now()
		WHERE id = $1
	`, id, amount, tier)
	if err != nil {
		return fmt.Errorf("%w: reverse spend", ErrInternal)
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

// GetForUpdateTx locks the customer row for the duration of the transaction.
func (r *CustomerRepository) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*Customer, error) {
	var c Customer
	err := tx.GetContext(ctx, &c, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: lock customer row", ErrInternal)
	}

	return &c, nil
}
