package customer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/pkg/password"
)

// Service handles customer lifecycle
type Service struct {
	repo Repository
}

// NewService creates customer service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a registered customer (password set). Registered
// customers participate in the loyalty program.
func (s *Service) Register(ctx context.Context, email, plainPassword, fullName string) (*Customer, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: sql.NullString{String: hash, Valid: true},
		FullName:     sql.NullString{String: fullName, Valid: fullName != ""},
		LoyaltyTier:  TierBronze,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// EnsureGuest returns the customer for an order email, creating a guest
// record (no password) on first contact. Guest customers hold order history
// but never earn points.
func (s *Service) EnsureGuest(ctx context.Context, email string) (*Customer, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	c := &Customer{
		ID:          uuid.New(),
		Email:       NormalizeEmail(email),
		LoyaltyTier: TierBronze,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		// Lost a race with a concurrent first order for the same email
		if err == ErrEmailExists {
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, err
	}

	return c, nil
}

// Login verifies credentials and returns the customer. Guests (no password
// on record) cannot log in even with an empty password; they must register,
// which converts nothing: registration with an existing email fails and the
// guest record stays guest until support upgrades it.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*Customer, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsGuest() || !c.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(plainPassword, c.PasswordHash.String) {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// GetByID returns customer by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Deactivate soft-deactivates a customer account
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}
