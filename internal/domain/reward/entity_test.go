package reward_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/domain/reward"
)

func baseReward() *reward.Reward {
	return &reward.Reward{
		ID:             uuid.New(),
		Name:           "10% off",
		PointsRequired: 50,
		Type:           reward.TypeDiscountPercentage,
		Value:          10,
		IsActive:       true,
		CodePrefix:     "SAVE10",
	}
}

func baseCustomer(points int, tier customer.Tier) *customer.Customer {
	return &customer.Customer{
		ID:            uuid.New(),
		Email:         "test@example.com",
		LoyaltyPoints: points,
		LoyaltyTier:   tier,
	}
}

func TestCheckRedeemableHappyPath(t *testing.T) {
	rw := baseReward()
	c := baseCustomer(50, customer.TierBronze)

	if err := rw.CheckRedeemable(c, time.Now()); err != nil {
		t.Fatalf("expected redeemable, got %v", err)
	}
}

func TestCheckRedeemableInsufficientPoints(t *testing.T) {
	rw := baseReward()
	c := baseCustomer(40, customer.TierBronze)

	err := rw.CheckRedeemable(c, time.Now())
	if !errors.Is(err, reward.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
	if err.Error() != "insufficient points: need 10 more points" {
		t.Errorf("shortfall message = %q", err.Error())
	}
}

func TestCheckRedeemableZeroCost(t *testing.T) {
	// A free reward is redeemable at zero balance.
	rw := baseReward()
	rw.PointsRequired = 0

	c := baseCustomer(0, customer.TierBronze)
	if err := rw.CheckRedeemable(c, time.Now()); err != nil {
		t.Fatalf("zero-cost reward should be redeemable, got %v", err)
	}
}

func TestCheckRedeemableTierGate(t *testing.T) {
	rw := baseReward()
	rw.TierRequired = sql.NullString{String: "gold", Valid: true}

	c := baseCustomer(100, customer.TierSilver)
	if err := rw.CheckRedeemable(c, time.Now()); !errors.Is(err, reward.ErrTierTooLow) {
		t.Fatalf("expected ErrTierTooLow, got %v", err)
	}

	c.LoyaltyTier = customer.TierGold
	if err := rw.CheckRedeemable(c, time.Now()); err != nil {
		t.Fatalf("gold should pass gold gate, got %v", err)
	}

	c.LoyaltyTier = customer.TierPlatinum
	if err := rw.CheckRedeemable(c, time.Now()); err != nil {
		t.Fatalf("platinum should pass gold gate, got %v", err)
	}
}

func TestCheckRedeemableStock(t *testing.T) {
	rw := baseReward()
	rw.Stock = sql.NullInt64{Int64: 0, Valid: true}

	c := baseCustomer(100, customer.TierBronze)
	if err := rw.CheckRedeemable(c, time.Now()); !errors.Is(err, reward.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	// NULL stock means unlimited
	rw.Stock = sql.NullInt64{}
	if err := rw.CheckRedeemable(c, time.Now()); err != nil {
		t.Fatalf("unlimited stock should pass, got %v", err)
	}
}

func TestCheckRedeemableValidityWindow(t *testing.T) {
	now := time.Now()
	rw := baseReward()
	c := baseCustomer(100, customer.TierBronze)

	rw.ValidFrom = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
	if err := rw.CheckRedeemable(c, now); !errors.Is(err, reward.ErrNotYetValid) {
		t.Fatalf("expected ErrNotYetValid, got %v", err)
	}

	rw.ValidFrom = sql.NullTime{}
	rw.ValidUntil = sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	if err := rw.CheckRedeemable(c, now); !errors.Is(err, reward.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestCheckRedeemableInactive(t *testing.T) {
	rw := baseReward()
	rw.IsActive = false

	c := baseCustomer(100, customer.TierBronze)
	if err := rw.CheckRedeemable(c, time.Now()); !errors.Is(err, reward.ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
}

func TestCheckRedeemableBalanceCheckedFirst(t *testing.T) {
	// Multiple failures at once must report the balance shortfall first.
	rw := baseReward()
	rw.IsActive = false
	rw.Stock = sql.NullInt64{Int64: 0, Valid: true}

	c := baseCustomer(10, customer.TierBronze)
	if err := rw.CheckRedeemable(c, time.Now()); !errors.Is(err, reward.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints first, got %v", err)
	}
}
