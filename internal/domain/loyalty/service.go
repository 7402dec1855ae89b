package loyalty

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/domain/customer"
)

// Service handles loyalty dashboard reads and admin ledger operations
type Service struct {
	repo      Repository
	customers customer.Repository
	policy    *Policy
}

// NewService creates loyalty service
func NewService(repo Repository, customers customer.Repository, policy *Policy) *Service {
	return &Service{repo: repo, customers: customers, policy: policy}
}

// Policy exposes the tier policy to collaborators
func (s *Service) Policy() *Policy {
	return s.policy
}

// Dashboard returns the customer-facing loyalty projection: cached balance,
// tier with benefits, progress to the next tier and recent ledger entries.
func (s *Service) Dashboard(ctx context.Context, customerID uuid.UUID) (*DashboardResponse, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}

	recent, err := s.repo.HistoryOf(ctx, customerID, HistoryFilters{Limit: 10})
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		Balance:     c.LoyaltyPoints,
		Tier:        string(c.LoyaltyTier),
		Benefits:    s.policy.BenefitsOf(c.LoyaltyTier),
		TotalSpent:  c.TotalSpent,
		OrdersCount: c.OrdersCount,
		Recent:      make([]*EntryResponse, len(recent)),
	}

	if next, remaining, ok := s.policy.Progress(c.TotalSpent); ok {
		resp.NextTier = string(next)
		resp.NextTierRemaining = remaining
	}

	for i := range recent {
		resp.Recent[i] = ToEntryResponse(&recent[i])
	}

	return resp, nil
}

// History returns the paginated ledger for a customer, newest first
func (s *Service) History(ctx context.Context, customerID uuid.UUID, filters HistoryFilters) ([]Entry, error) {
	return s.repo.HistoryOf(ctx, customerID, filters)
}

// AdminAdjust applies a manual adjustment through the same append contract
// as every other balance change. Negative adjustments that would drive the
// balance below zero fail with ErrInsufficientBalance.
func (s *Service) AdminAdjust(ctx context.Context, customerID uuid.UUID, points int, reason string, adminID uuid.UUID) (*Entry, error) {
	if points == 0 {
		return nil, ErrInvalidPoints
	}

	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCustomerNotFound
	}

	e := &Entry{
		CustomerID:  customerID,
		Points:      points,
		Type:        EntryTypeAdminAdjust,
		Description: fmt.Sprintf("manual adjustment: %s", reason),
	}
	e.SetMeta(&EntryMeta{AdminID: &adminID})

	if err := s.repo.Append(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Search returns filtered ledger entries (admin use)
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Entry, error) {
	return s.repo.Search(ctx, filters)
}

// Audit re-sums the ledger and compares it with the cached balance.
// A mismatch means a mutation bypassed the append contract.
func (s *Service) Audit(ctx context.Context, customerID uuid.UUID) (*AuditResponse, error) {
	balance, err := s.repo.BalanceOf(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sum, err := s.repo.SumOf(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &AuditResponse{
		CustomerID:    customerID,
		CachedBalance: balance,
		LedgerSum:     sum,
		Consistent:    balance == sum,
	}, nil
}
