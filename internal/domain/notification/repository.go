package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, customerID uuid.UUID) error
	UnreadCount(ctx context.Context, customerID uuid.UUID) (int, error)
}

// NotificationRepository provides notification persistence.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *Notification) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO notifications (id, customer_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.CustomerID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert notification", ErrInternal)
	}

	return nil
}

func (r *NotificationRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Notification, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	notifications := make([]Notification, 0)
	err := r.db.SelectContext(ctx2, &notifications, `
		SELECT id, customer_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications", ErrInternal)
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, customerID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND customer_id = $2
	`, id, customerID)
	if err != nil {
		return fmt.Errorf("%w: mark read", ErrInternal)
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

func (r *NotificationRepository) UnreadCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM notifications WHERE customer_id = $1 AND is_read = false
	`, customerID)
	if err != nil {
		return 0, fmt.Errorf("%w: unread count", ErrInternal)
	}

	return count, nil
}
