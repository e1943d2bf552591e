package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
)

// ReconcileStalePending sweeps pending orders older than the session TTL and
// reconciles each against the provider. Expired sessions are cancelled, paid
// ones completed; orders that never got a session are left for the
// administrative purge.
func (uc *DefaultCheckoutUsecase) ReconcileStalePending(ctx context.Context) error {
	cutoff := time.Now().Add(-uc.StalePendingTTL)
	orders, err := uc.OrderRepo.FindStalePending(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if order.PaymentSessionID == nil {
			continue
		}

		start := time.Now()
		info, err := uc.Gateway.RetrieveSession(ctx, *order.PaymentSessionID)
		uc.observeProviderCall("retrieve_session", start, err)
		if err != nil {
			slog.Warn("stale order reconciliation failed",
				"order_id", order.ID,
				"error", err.Error(),
			)
			continue
		}

		switch info.PaymentStatus {
		case domain.PaymentPaid:
			err = uc.applyPaymentOutcome(ctx, order.ID, domain.StatusCompleted, "sweep")
		case domain.PaymentExpired:
			err = uc.applyPaymentOutcome(ctx, order.ID, domain.StatusCancelled, "sweep")
		}
		if err != nil {
			slog.Warn("stale order transition failed", "order_id", order.ID, "error", err.Error())
		}
	}

	return nil
}

// PurgeStalePending bulk-deletes session-less pending orders older than the
// given age. Explicit administrative maintenance, never part of checkout.
func (uc *DefaultCheckoutUsecase) PurgeStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	deleted, err := uc.OrderRepo.DeleteStalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		slog.Info("purged stale pending orders", "count", deleted)
	}
	return deleted, nil
}
