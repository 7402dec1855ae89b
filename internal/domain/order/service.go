package order

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/domain/loyalty"
	"github.com/orda/orda-api/internal/domain/notification"
	"github.com/orda/orda-api/internal/pkg/email"
)

// Service orchestrates order status changes and their loyalty side effects.
// The status write and its side effects (earn or refund entry, customer
// stats, tier recompute) share one transaction: a failed side effect rolls
// the status change back rather than leaving an order completed with no
// award on record.
type Service struct {
	db          *sqlx.DB
	repo        Repository
	customers   customer.Repository
	customerSvc *customer.Service
	ledger      loyalty.Repository
	policy      *loyalty.Policy
	notify      *notification.Service
	mailer      email.Notifier
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	customers customer.Repository,
	customerSvc *customer.Service,
	ledger loyalty.Repository,
	policy *loyalty.Policy,
	notify *notification.Service,
	mailer email.Notifier,
) *Service {
	return &Service{
		db:          db,
		repo:        repo,
		customers:   customers,
		customerSvc: customerSvc,
		ledger:      ledger,
		policy:      policy,
		notify:      notify,
		mailer:      mailer,
	}
}

// tierShift captures the loyalty outcome of a transition for post-commit
// notifications.
type tierShift struct {
	cust     *customer.Customer
	prior    customer.Tier
	current  customer.Tier
	points   int
	awarded  bool
	refunded bool
}

// Create registers a new order in pending status. The customer record for
// the email is ensured up front so guests get an order history from their
// first purchase.
func (s *Service) Create(ctx context.Context, email string, total int64) (*Order, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total must be positive", ErrInternal)
	}

	if _, err := s.customerSvc.EnsureGuest(ctx, email); err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:            uuid.New(),
		Number:        generateNumber(now),
		CustomerEmail: customer.NormalizeEmail(email),
		Total:         total,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", o.ID.String()).
		Str("number", o.Number).
		Int64("total", o.Total).
		Msg("order created")

	return o, nil
}

func generateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// GetByID returns one order or ErrNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}

// UpdateStatus moves an order through the state machine. Entering completed
// awards points at the customer's tier before the order counts toward spend;
// cancelling a completed order replays the original earn entry as a refund,
// clamped so the balance never goes negative. Guests (no password) get the
// status change only.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, target Status) (*Order, error) {
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	// Resolved outside the transaction; the row is re-read under lock inside.
	existing, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	cust, err := s.customers.GetByEmail(ctx, existing.CustomerEmail)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	o, err := s.repo.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	if err := s.repo.UpdateStatusTx(ctx, tx, orderID, target); err != nil {
		return nil, err
	}

	var shift *tierShift
	switch {
	case target == StatusCompleted:
		shift, err = s.applyCompletion(ctx, tx, o, cust)
	case target == StatusCancelled && o.Status == StatusCompleted:
		shift, err = s.applyCancellation(ctx, tx, o, cust)
	}
	if err != nil {
		log.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("from", string(o.Status)).
			Str("to", string(target)).
			Msg("loyalty side effect failed, rolling back status change")
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	prior := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()

	s.afterTransition(ctx, o, prior, shift)

	return o, nil
}

// applyCompletion awards points at the tier held before this order and then
// folds the order into the customer's spend stats, recomputing the tier.
// The earn entry carries the order id; a unique index on (order_id) for
// earn entries makes a duplicate completion trigger fail loudly instead of
// double-awarding, and the pre-check keeps the normal replay path clean.
func (s *Service) applyCompletion(ctx context.Context, tx *sqlx.Tx, o *Order, cust *customer.Customer) (*tierShift, error) {
	if cust == nil || cust.IsGuest() {
		return nil, nil
	}

	locked, err := s.customers.GetForUpdateTx(ctx, tx, cust.ID)
	if err != nil {
		return nil, err
	}

	if prev, err := s.ledger.EarnForOrderTx(ctx, tx, o.ID); err != nil {
		return nil, err
	} else if prev != nil {
		log.Warn().
			Str("order_id", o.ID.String()).
			Msg("order already awarded, skipping loyalty side effects")
		return nil, nil
	}

	priorTier := locked.LoyaltyTier
	points := s.policy.PointsFor(o.Total, priorTier)

	if points > 0 {
		entry := &loyalty.Entry{
			CustomerID:  locked.ID,
			Points:      points,
			Type:        loyalty.EntryTypeEarn,
			Description: fmt.Sprintf("Points for order %s", o.Number),
			OrderID:     uuid.NullUUID{UUID: o.ID, Valid: true},
		}
		entry.SetMeta(&loyalty.EntryMeta{OrderNumber: o.Number})

		if err := s.ledger.AppendTx(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	newTier := s.policy.TierOf(locked.TotalSpent + o.Total)
	if err := s.customers.ApplySpendTx(ctx, tx, locked.ID, o.Total, newTier, time.Now()); err != nil {
		return nil, err
	}

	return &tierShift{
		cust:    locked,
		prior:   priorTier,
		current: newTier,
		points:  points,
		awarded: true,
	}, nil
}

// applyCancellation unwinds a completed order: the original earn entry is
// replayed as a refund for exactly the awarded amount (not recomputed at the
// current tier), clamped at a zero balance, and the spend stats are reversed
// with the tier recomputed from the reduced total.
func (s *Service) applyCancellation(ctx context.Context, tx *sqlx.Tx, o *Order, cust *customer.Customer) (*tierShift, error) {
	if cust == nil || cust.IsGuest() {
		return nil, nil
	}

	locked, err := s.customers.GetForUpdateTx(ctx, tx, cust.ID)
	if err != nil {
		return nil, err
	}

	priorTier := locked.LoyaltyTier

	earn, err := s.ledger.EarnForOrderTx(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}

	refunded := 0
	if earn != nil && earn.Points > 0 {
		entry := &loyalty.Entry{
			CustomerID:  locked.ID,
			Points:      -earn.Points,
			Type:        loyalty.EntryTypeRefund,
			Description: fmt.Sprintf("Refund for cancelled order %s", o.Number),
			OrderID:     uuid.NullUUID{UUID: o.ID, Valid: true},
		}
		entry.SetMeta(&loyalty.EntryMeta{OrderNumber: o.Number})

		applied, err := s.ledger.AppendClampedTx(ctx, tx, entry)
		if err != nil {
			return nil, err
		}
		refunded = -applied
	}

	newTier := s.policy.TierOf(max(locked.TotalSpent-o.Total, 0))
	if err := s.customers.ReverseSpendTx(ctx, tx, locked.ID, o.Total, newTier); err != nil {
		return nil, err
	}

	return &tierShift{
		cust:     locked,
		prior:    priorTier,
		current:  newTier,
		points:   refunded,
		refunded: true,
	}, nil
}

// afterTransition emits post-commit notifications. All best-effort: the
// transition already committed, so failures here are logged only.
func (s *Service) afterTransition(ctx context.Context, o *Order, prior Status, shift *tierShift) {
	if o.Status == StatusCompleted {
		s.mailer.InvoiceReady(ctx, o.CustomerEmail, o.Number)
	}

	if shift == nil {
		return
	}

	if shift.awarded && shift.points > 0 {
		s.notify.Notify(ctx, shift.cust.ID, notification.TypeOrderCompleted,
			"Points earned",
			fmt.Sprintf("You earned %d points for order %s", shift.points, o.Number))
	}

	if shift.prior != shift.current {
		typ := notification.TypeTierUpgraded
		title := "Tier upgraded"
		if shift.current.Rank() < shift.prior.Rank() {
			typ = notification.TypeTierDowngraded
			title = "Tier changed"
		}
		s.notify.Notify(ctx, shift.cust.ID, typ, title,
			fmt.Sprintf("Your loyalty tier changed from %s to %s", shift.prior, shift.current))
		s.mailer.TierChanged(ctx, shift.cust.Email, shift.cust.FullName.String,
			string(shift.prior), string(shift.current))
	}

	log.Info().
		Str("order_id", o.ID.String()).
		Str("from", string(prior)).
		Str("to", string(o.Status)).
		Int("points", shift.points).
		Str("tier", string(shift.current)).
		Msg("order transition applied")
}

// ListByEmail returns a customer's orders, newest first
func (s *Service) ListByEmail(ctx context.Context, email string, limit, offset int) ([]Order, error) {
	return s.repo.ListByEmail(ctx, customer.NormalizeEmail(email), limit, offset)
}
