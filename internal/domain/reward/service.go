package reward

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orda/orda-api/internal/config"
	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/pkg/cache"
)

const catalogCacheKey = "rewards:catalog:active"

// Service implements reward catalog business logic
type Service struct {
	repo      Repository
	customers customer.Repository
	cache     *cache.Cache
	cacheTTL  time.Duration
}

func NewService(repo Repository, customers customer.Repository, c *cache.Cache, cfg config.LoyaltyConfig) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		cache:     c,
		cacheTTL:  cfg.RewardCacheTTL,
	}
}

// Catalog returns active rewards annotated per-customer with can_redeem and,
// when not redeemable, the reason. The raw active list is cached; the
// per-customer annotation is computed on every request since it depends on
// live balance.
func (s *Service) Catalog(ctx context.Context, customerID uuid.UUID) ([]*RewardResponse, error) {
	rewards, err := s.listActive(ctx)
	if err != nil {
		return nil, err
	}

	var cust *customer.Customer
	if customerID != uuid.Nil {
		cust, err = s.customers.GetByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	items := make([]*RewardResponse, 0, len(rewards))
	for i := range rewards {
		resp := ToRewardResponse(&rewards[i])
		if cust != nil {
			checkErr := rewards[i].CheckRedeemable(cust, now)
			can := checkErr == nil
			resp.CanRedeem = &can
			if checkErr != nil {
				resp.Reason = checkErr.Error()
			}
		}
		items = append(items, resp)
	}

	return items, nil
}

func (s *Service) listActive(ctx context.Context) ([]Reward, error) {
	var rewards []Reward
	if s.cache.GetJSON(ctx, catalogCacheKey, &rewards) {
		return rewards, nil
	}

	rewards, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, catalogCacheKey, rewards, s.cacheTTL)
	return rewards, nil
}

// GetByID returns one reward or ErrNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Reward, error) {
	rw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rw == nil {
		return nil, ErrNotFound
	}
	return rw, nil
}

// ListAll returns the full catalog including inactive rewards (admin view)
func (s *Service) ListAll(ctx context.Context) ([]Reward, error) {
	return s.repo.List(ctx, false)
}

// Create adds a reward to the catalog and invalidates the cached list
func (s *Service) Create(ctx context.Context, req *CreateRewardRequest) (*Reward, error) {
	now := time.Now()
	rw := &Reward{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       nullString(req.Description),
		PointsRequired:    req.PointsRequired,
		Type:              Type(req.Type),
		Value:             req.Value,
		MinOrderValue:     nullInt64(req.MinOrderValue),
		MaxDiscountAmount: nullInt64(req.MaxDiscountAmount),
		TierRequired:      nullString(req.TierRequired),
		Stock:             nullInt64(req.Stock),
		ValidFrom:         nullTime(req.ValidFrom),
		ValidUntil:        nullTime(req.ValidUntil),
		IsActive:          true,
		CodePrefix:        strings.ToUpper(req.CodePrefix),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, rw); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, catalogCacheKey)
	log.Info().Str("reward_id", rw.ID.String()).Str("name", rw.Name).Msg("reward created")

	return rw, nil
}

// Update applies the non-nil fields of req and invalidates the cached list
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRewardRequest) (*Reward, error) {
	rw, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rw.Name = *req.Name
	}
	if req.Description != nil {
		rw.Description = nullString(*req.Description)
	}
	if req.PointsRequired != nil {
		rw.PointsRequired = *req.PointsRequired
	}
	if req.Type != nil {
		rw.Type = Type(*req.Type)
	}
	if req.Value != nil {
		rw.Value = *req.Value
	}
	if req.MinOrderValue != nil {
		rw.MinOrderValue = sql.NullInt64{Int64: *req.MinOrderValue, Valid: true}
	}
	if req.MaxDiscountAmount != nil {
		rw.MaxDiscountAmount = sql.NullInt64{Int64: *req.MaxDiscountAmount, Valid: true}
	}
	if req.TierRequired != nil {
		rw.TierRequired = nullString(*req.TierRequired)
	}
	if req.Stock != nil {
		rw.Stock = sql.NullInt64{Int64: *req.Stock, Valid: true}
	}
	if req.ValidFrom != nil {
		rw.ValidFrom = sql.NullTime{Time: *req.ValidFrom, Valid: true}
	}
	if req.ValidUntil != nil {
		rw.ValidUntil = sql.NullTime{Time: *req.ValidUntil, Valid: true}
	}
	if req.IsActive != nil {
		rw.IsActive = *req.IsActive
	}
	if req.CodePrefix != nil {
		rw.CodePrefix = strings.ToUpper(*req.CodePrefix)
	}

	if err := s.repo.Update(ctx, rw); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, catalogCacheKey)

	return rw, nil
}

// Remove deletes a reward with no issued vouchers; one with vouchers is
// deactivated instead so voucher history keeps its reference. Returns
// whether the reward was hard-deleted.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return false, err
	}

	referenced, err := s.repo.HasVouchers(ctx, id)
	if err != nil {
		return false, err
	}

	if referenced {
		if err := s.repo.Deactivate(ctx, id); err != nil {
			return false, err
		}
		s.cache.Delete(ctx, catalogCacheKey)
		log.Info().Str("reward_id", id.String()).Msg("reward deactivated (vouchers exist)")
		return false, nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	s.cache.Delete(ctx, catalogCacheKey)
	log.Info().Str("reward_id", id.String()).Msg("reward deleted")

	return true, nil
}

// InvalidateCatalog drops the cached active list. Called by the voucher
// service after a redemption changes stock.
func (s *Service) InvalidateCatalog(ctx context.Context) {
	s.cache.Delete(ctx, catalogCacheKey)
}
