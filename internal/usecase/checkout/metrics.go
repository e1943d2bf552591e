package checkout

import (
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
)

func (uc *DefaultCheckoutUsecase) recordCheckoutCreated(order *domain.Order) {
	ownerKind := "guest"
	if order.OwnerID != nil {
		ownerKind = "account"
	}
	uc.Metrics.CheckoutsCreatedTotal.WithLabelValues(ownerKind).Inc()
	uc.Metrics.CheckoutsCreatedAmountTotal.WithLabelValues(ownerKind).Add(order.Total)
}

func (uc *DefaultCheckoutUsecase) recordTransition(order *domain.Order, newStatus domain.OrderStatus, source string) {
	switch newStatus {
	case domain.StatusCompleted:
		uc.Metrics.OrdersCompletedTotal.WithLabelValues(source).Inc()
		uc.Metrics.OrdersCompletedAmountTotal.WithLabelValues(source).Add(order.Total)
	case domain.StatusCancelled:
		uc.Metrics.OrdersCancelledTotal.WithLabelValues(source).Inc()
	}
}

func (uc *DefaultCheckoutUsecase) recordWebhookEvent(kind domain.WebhookEventKind, outcome error) {
	result := "ok"
	if outcome != nil {
		result = "error"
	}
	uc.Metrics.WebhookEventsTotal.WithLabelValues(string(kind), result).Inc()
}

func (uc *DefaultCheckoutUsecase) recordStatusPoll(outcome string) {
	uc.Metrics.StatusPollsTotal.WithLabelValues(outcome).Inc()
}

func (uc *DefaultCheckoutUsecase) observeProviderCall(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	uc.Metrics.ProviderRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
