package voucher_test

import (
	"testing"
	"time"

	"github.com/orda/orda-api/internal/domain/voucher"
)

func TestEffectiveStatusLazyExpiry(t *testing.T) {
	now := time.Now()

	v := &voucher.Voucher{Status: voucher.StatusActive, ExpiresAt: now.Add(time.Hour)}
	if got := v.EffectiveStatus(now); got != voucher.StatusActive {
		t.Errorf("unexpired active voucher: got %s", got)
	}
	if !v.Usable(now) {
		t.Error("unexpired active voucher should be usable")
	}

	// Past expiry the stored status stays active; only the view changes.
	v.ExpiresAt = now.Add(-time.Minute)
	if got := v.EffectiveStatus(now); got != voucher.StatusExpired {
		t.Errorf("expired active voucher: got %s", got)
	}
	if v.Status != voucher.StatusActive {
		t.Error("stored status must not be mutated by EffectiveStatus")
	}
	if v.Usable(now) {
		t.Error("expired voucher should not be usable")
	}

	used := &voucher.Voucher{Status: voucher.StatusUsed, ExpiresAt: now.Add(time.Hour)}
	if got := used.EffectiveStatus(now); got != voucher.StatusUsed {
		t.Errorf("used voucher: got %s", got)
	}
}
