package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service implements notification business logic. Notify is best-effort:
// a failed feed write must never fail the operation that triggered it.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a feed entry for a customer. Errors are logged and
// swallowed.
func (s *Service) Notify(ctx context.Context, customerID uuid.UUID, typ Type, title, message string) {
	n := &Notification{
		ID:         uuid.New(),
		CustomerID: customerID,
		Type:       typ,
		Title:      title,
		Message:    message,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Warn().Err(err).
			Str("customer_id", customerID.String()).
			Str("type", string(typ)).
			Msg("notification write failed")
	}
}

// List returns a page of the customer's feed
func (s *Service) List(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Notification, error) {
	return s.repo.ListByCustomer(ctx, customerID, limit, offset)
}

// MarkRead marks one of the customer's notifications as read
func (s *Service) MarkRead(ctx context.Context, id, customerID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, customerID)
}

// UnreadCount returns the customer's unread badge count
func (s *Service) UnreadCount(ctx context.Context, customerID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, customerID)
}
