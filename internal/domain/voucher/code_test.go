package voucher_test

import (
	"regexp"
	"testing"

	"github.com/orda/orda-api/internal/domain/voucher"
)

func TestGenerateCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^SAVE10-[A-Z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		code, err := voucher.GenerateCode("SAVE10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match expected format", code)
		}
	}
}

func TestGenerateCodeUppercasesPrefix(t *testing.T) {
	code, err := voucher.GenerateCode("gift")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code[:5] != "GIFT-" {
		t.Fatalf("expected GIFT- prefix, got %q", code)
	}
}

func TestGenerateCodeVariety(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := voucher.GenerateCode("X")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[code] = true
	}

	// 36^6 possible suffixes; 200 draws colliding down to a handful would
	// mean broken entropy, not bad luck.
	if len(seen) < 190 {
		t.Fatalf("expected near-unique codes, got %d distinct of 200", len(seen))
	}
}
