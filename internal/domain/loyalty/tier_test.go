package loyalty_test

import (
	"testing"
	"time"

	"github.com/orda/orda-api/internal/config"
	"github.com/orda/orda-api/internal/domain/customer"
	"github.com/orda/orda-api/internal/domain/loyalty"
)

func testLoyaltyConfig() config.LoyaltyConfig {
	return config.LoyaltyConfig{
		SilverThreshold:   5_000_000,
		GoldThreshold:     10_000_000,
		PlatinumThreshold: 20_000_000,

		BronzeMultiplier:   1,
		SilverMultiplier:   1.2,
		GoldMultiplier:     1.5,
		PlatinumMultiplier: 2,

		EarnDivisor: 10_000,

		VoucherTTL:      720 * time.Hour,
		CodeMaxAttempts: 5,
		RewardCacheTTL:  5 * time.Minute,
	}
}

func TestTierOf(t *testing.T) {
	policy := loyalty.NewPolicy(testLoyaltyConfig())

	cases := []struct {
		spent int64
		want  customer.Tier
	}{
		{0, customer.TierBronze},
		{4_999_999, customer.TierBronze},
		{5_000_000, customer.TierSilver},
		{9_999_999, customer.TierSilver},
		{10_000_000, customer.TierGold},
		{19_999_999, customer.TierGold},
		{20_000_000, customer.TierPlatinum},
		{100_000_000, customer.TierPlatinum},
	}

	for _, c := range cases {
		if got := policy.TierOf(c.spent); got != c.want {
			t.Errorf("TierOf(%d) = %s, want %s", c.spent, got, c.want)
		}
	}
}

func TestTierOfMonotonic(t *testing.T) {
	policy := loyalty.NewPolicy(testLoyaltyConfig())

	prev := customer.TierBronze
	for spent := int64(0); spent <= 25_000_000; spent += 100_000 {
		tier := policy.TierOf(spent)
		if tier.Rank() < prev.Rank() {
			t.Fatalf("tier dropped from %s to %s at spent=%d", prev, tier, spent)
		}
		prev = tier
	}
}

func TestMultiplier(t *testing.T) {
	policy := loyalty.NewPolicy(testLoyaltyConfig())

	cases := []struct {
		tier customer.Tier
		want float64
	}{
		{customer.TierBronze, 1},
		{customer.TierSilver, 1.2},
		{customer.TierGold, 1.5},
		{customer.TierPlatinum, 2},
	}

	for _, c := range cases {
		if got := policy.Multiplier(c.tier); got != c.want {
			t.Errorf("Multiplier(%s) = %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestPointsFor(t *testing.T) {
	policy := loyalty.NewPolicy(testLoyaltyConfig())

	cases := []struct {
		name  string
		total int64
		tier  customer.Tier
		want  int
	}{
		{"bronze order", 250_000, customer.TierBronze, 25},
		{"gold order", 300_000, customer.TierGold, 45},
		{"platinum order", 100_000, customer.TierPlatinum, 20},
		{"silver fraction floors", 105_000, customer.TierSilver, 12},
		{"below divisor", 9_999, customer.TierBronze, 0},
		{"zero total", 0, customer.TierGold, 0},
		{"negative total", -50_000, customer.TierGold, 0},
		{"remainder ignored before multiplier", 19_999, customer.TierBronze, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := policy.PointsFor(c.total, c.tier); got != c.want {
				t.Errorf("PointsFor(%d, %s) = %d, want %d", c.total, c.tier, got, c.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	policy := loyalty.NewPolicy(testLoyaltyConfig())

	next, remaining, ok := policy.Progress(1_000_000)
	if !ok || next != customer.TierSilver || remaining != 4_000_000 {
		t.Errorf("Progress(1M) = (%s, %d, %v), want (silver, 4000000, true)", next, remaining, ok)
	}

	next, remaining, ok = policy.Progress(19_800_000)
	if !ok || next != customer.TierPlatinum || remaining != 200_000 {
		t.Errorf("Progress(19.8M) = (%s, %d, %v), want (platinum, 200000, true)", next, remaining, ok)
	}

	if _, _, ok := policy.Progress(20_000_000); ok {
		t.Error("Progress at platinum should report no next tier")
	}
}
