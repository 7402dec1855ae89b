package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier is the outbound notification contract. Rendering and delivery
// belong to the email subsystem; the loyalty core only emits signals and
// treats every send as best-effort.
type Notifier interface {
	TierChanged(ctx context.Context, to, name, oldTier, newTier string)
	VoucherIssued(ctx context.Context, to, name, voucherCode, rewardName string)
	InvoiceReady(ctx context.Context, to, orderNumber string)
}

// LogNotifier logs the signals instead of delivering them. Used when no
// delivery backend is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) TierChanged(ctx context.Context, to, name, oldTier, newTier string) {
	log.Info().
		Str("to", to).
		Str("old_tier", oldTier).
		Str("new_tier", newTier).
		Msg("tier changed notification")
}

func (n *LogNotifier) VoucherIssued(ctx context.Context, to, name, voucherCode, rewardName string) {
	log.Info().
		Str("to", to).
		Str("voucher_code", voucherCode).
		Str("reward", rewardName).
		Msg("voucher issued notification")
}

func (n *LogNotifier) InvoiceReady(ctx context.Context, to, orderNumber string) {
	log.Info().
		Str("to", to).
		Str("order_number", orderNumber).
		Msg("invoice ready notification")
}
