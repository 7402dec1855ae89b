package loyalty

import (
	"math"

	"github.com/orda/orda-api/internal/config"
	"github.com/orda/orda-api/internal/domain/customer"
)

// Policy maps lifetime spend to a tier and carries the per-tier earn
// multipliers and display benefits. Pure: no state beyond the injected
// configuration, no failure modes.
type Policy struct {
	cfg config.LoyaltyConfig
}

func NewPolicy(cfg config.LoyaltyConfig) *Policy {
	return &Policy{cfg: cfg}
}

// TierOf returns the tier for a lifetime spend. Monotonic: higher spend
// never yields a lower tier.
func (p *Policy) TierOf(totalSpent int64) customer.Tier {
	switch {
	case totalSpent >= p.cfg.PlatinumThreshold:
		return customer.TierPlatinum
	case totalSpent >= p.cfg.GoldThreshold:
		return customer.TierGold
	case totalSpent >= p.cfg.SilverThreshold:
		return customer.TierSilver
	default:
		return customer.TierBronze
	}
}

// Multiplier returns the earn multiplier for a tier
func (p *Policy) Multiplier(tier customer.Tier) float64 {
	switch tier {
	case customer.TierPlatinum:
		return p.cfg.PlatinumMultiplier
	case customer.TierGold:
		return p.cfg.GoldMultiplier
	case customer.TierSilver:
		return p.cfg.SilverMultiplier
	default:
		return p.cfg.BronzeMultiplier
	}
}

// PointsFor computes the award for an order total at a given tier:
// floor(total / divisor) * multiplier, floored.
func (p *Policy) PointsFor(orderTotal int64, tier customer.Tier) int {
	if orderTotal <= 0 {
		return 0
	}
	base := orderTotal / p.cfg.EarnDivisor
	return int(math.Floor(float64(base) * p.Multiplier(tier)))
}

// Benefits describes what a tier grants. Display only: enforcement belongs
// to the checkout flow, not this core.
type Benefits struct {
	DiscountPercent  int     `json:"discount_percent"`
	FreeShippingOver int64   `json:"free_shipping_over"`
	EarnMultiplier   float64 `json:"earn_multiplier"`
}

// BenefitsOf returns the display benefits for a tier
func (p *Policy) BenefitsOf(tier customer.Tier) Benefits {
	b := Benefits{EarnMultiplier: p.Multiplier(tier)}
	switch tier {
	case customer.TierPlatinum:
		b.DiscountPercent = 10
		b.FreeShippingOver = 0
	case customer.TierGold:
		b.DiscountPercent = 5
		b.FreeShippingOver = 100_000
	case customer.TierSilver:
		b.DiscountPercent = 3
		b.FreeShippingOver = 200_000
	default:
		b.DiscountPercent = 0
		b.FreeShippingOver = 500_000
	}
	return b
}

// Progress reports the next tier and the remaining spend to reach it.
// ok is false at the top tier.
func (p *Policy) Progress(totalSpent int64) (next customer.Tier, remaining int64, ok bool) {
	switch p.TierOf(totalSpent) {
	case customer.TierBronze:
		return customer.TierSilver, p.cfg.SilverThreshold - totalSpent, true
	case customer.TierSilver:
		return customer.TierGold, p.cfg.GoldThreshold - totalSpent, true
	case customer.TierGold:
		return customer.TierPlatinum, p.cfg.PlatinumThreshold - totalSpent, true
	default:
		return customer.TierPlatinum, 0, false
	}
}
