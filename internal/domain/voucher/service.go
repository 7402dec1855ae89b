package voucher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/orda/orda-api/internal/config"
	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/domain/loyalty"
	"github.com/orda/orda-api/internal/domain/notification"
	"github.com/orda/orda-api/internal/domain/reward"
	"github.com/orda/orda-api/internal/pkg/email"
)

// Service implements voucher issuance and lookup. Redemption is the one
// multi-write protocol here: voucher insert, ledger debit and stock
// decrement share a transaction, so a failure at any step leaves no partial
// effects.
type Service struct {
	db         *sqlx.DB
	repo       Repository
	ledger     loyalty.Repository
	rewards    *reward.Service
	rewardRepo reward.Repository
	customers  customer.Repository
	notify     *notification.Service
	mailer     email.Notifier

	voucherTTL  time.Duration
	maxAttempts int
}

func NewService(
	db *sqlx.DB,
	repo Repository,
	ledger loyalty.Repository,
	rewards *reward.Service,
	rewardRepo reward.Repository,
	customers customer.Repository,
	notify *notification.Service,
	mailer email.Notifier,
	cfg config.LoyaltyConfig,
) *Service {
	return &Service{
		db:          db,
		repo:        repo,
		ledger:      ledger,
		rewards:     rewards,
		rewardRepo:  rewardRepo,
		customers:   customers,
		notify:      notify,
		mailer:      mailer,
		voucherTTL:  cfg.VoucherTTL,
		maxAttempts: cfg.CodeMaxAttempts,
	}
}

// Redeem exchanges points for a voucher. Eligibility is prechecked for a
// fast typed failure, then enforced again inside the transaction by the
// conditional ledger debit and stock decrement, which are what actually
// guarantee correctness under concurrency. A code collision aborts the
// whole transaction and retries with a fresh code, since Postgres poisons a
// transaction after any failed statement.
func (s *Service) Redeem(ctx context.Context, customerID, rewardID uuid.UUID) (*RedeemResponse, error) {
	rw, err := s.rewards.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, loyalty.ErrCustomerNotFound
	}

	now := time.Now()
	if err := rw.CheckRedeemable(cust, now); err != nil {
		return nil, err
	}

	var issued *Voucher
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := GenerateCode(rw.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCodeGeneration, err)
		}

		v := &Voucher{
			ID:         uuid.New(),
			CustomerID: customerID,
			RewardID:   rw.ID,
			Code:       code,
			Status:     StatusActive,
			ExpiresAt:  now.Add(s.voucherTTL),
			CreatedAt:  now,
		}

		err = s.redeemTx(ctx, v, rw)
		if err == nil {
			issued = v
			break
		}
		if errors.Is(err, ErrCodeCollision) {
			log.Warn().Str("code", code).Int("attempt", attempt+1).Msg("voucher code collision, retrying")
			continue
		}
		return nil, err
	}
	if issued == nil {
		return nil, ErrCodeGeneration
	}

	if rw.Stock.Valid {
		s.rewards.InvalidateCatalog(ctx)
	}

	s.notify.Notify(ctx, customerID, notification.TypeVoucherIssued,
		"Voucher issued",
		fmt.Sprintf("Your voucher %s for %s is ready", issued.Code, rw.Name))
	s.mailer.VoucherIssued(ctx, cust.Email, cust.FullName.String, issued.Code, rw.Name)

	balance, err := s.ledger.BalanceOf(ctx, customerID)
	if err != nil {
		balance = cust.LoyaltyPoints - rw.PointsRequired
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("reward_id", rw.ID.String()).
		Str("code", issued.Code).
		Int("points", rw.PointsRequired).
		Msg("reward redeemed")

	return &RedeemResponse{
		Voucher:     ToVoucherResponse(issued, now),
		PointsSpent: rw.PointsRequired,
		BalanceLeft: balance,
		RewardName:  rw.Name,
		RewardType:  rw.Type,
		RewardValue: rw.Value,
	}, nil
}

func (s *Service) redeemTx(ctx context.Context, v *Voucher, rw *reward.Reward) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	if err := s.repo.CreateTx(ctx2, tx, v); err != nil {
		return err
	}

	// Zero-cost rewards issue a voucher without a ledger debit; the ledger
	// only records non-zero deltas.
	if rw.PointsRequired > 0 {
		entry := &loyalty.Entry{
			CustomerID:  v.CustomerID,
			Points:      -rw.PointsRequired,
			Type:        loyalty.EntryTypeRedeem,
			Description: fmt.Sprintf("Redeemed reward: %s", rw.Name),
			RewardID:    uuid.NullUUID{UUID: rw.ID, Valid: true},
		}
		entry.SetMeta(&loyalty.EntryMeta{VoucherCode: v.Code})

		if err := s.ledger.AppendTx(ctx2, tx, entry); err != nil {
			return err
		}
	}

	if rw.Stock.Valid {
		if err := s.rewardRepo.DecrementStockTx(ctx2, tx, rw.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

// ListMine returns the customer's vouchers filtered by effective status
func (s *Service) ListMine(ctx context.Context, customerID uuid.UUID, status *Status) ([]Voucher, error) {
	return s.repo.ListByCustomer(ctx, customerID, status)
}

// GetByCode resolves a voucher code, or ErrNotFound
func (s *Service) GetByCode(ctx context.Context, code string) (*Voucher, error) {
	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// MarkUsed consumes a voucher at checkout, recording the order it was
// applied to. Forward-only: used and expired vouchers are rejected.
func (s *Service) MarkUsed(ctx context.Context, code string, orderID uuid.UUID) (*Voucher, error) {
	v, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.repo.MarkUsed(ctx, v.ID, orderID, now); err != nil {
		return nil, err
	}

	v.Status = StatusUsed
	v.UsedAt = sql.NullTime{Time: now, Valid: true}
	v.UsedInOrderID = uuid.NullUUID{UUID: orderID, Valid: true}

	return v, nil
}
