package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/logger"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/notifier"
	checkoutdto "github.com/bloomlane/bloom-order-service/internal/usecase/dto/checkout"
	"github.com/google/uuid"
)

// HandleWebhook verifies an inbound provider event and applies it to the
// referenced order. Safe to invoke any number of times with the same
// payload: only the first delivery transitions the order.
func (uc *DefaultCheckoutUsecase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := uc.Gateway.ParseWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			uc.Metrics.WebhookSignatureFailures.Inc()
			slog.Warn("webhook rejected: bad signature", "error", err.Error())
		}
		return err
	}

	switch event.Kind {
	case domain.EventCheckoutCompleted:
		err = uc.applyPaymentOutcome(ctx, event.OrderID, domain.StatusCompleted, "webhook")
	case domain.EventAsyncPaymentFailed:
		err = uc.applyPaymentOutcome(ctx, event.OrderID, domain.StatusCancelled, "webhook")
	case domain.EventUnknown:
		// Unknown event kinds are acknowledged so future provider event
		// types never break the endpoint.
		slog.Info("ignoring unknown webhook event", "provider_event_id", event.ProviderEventID)
	}

	uc.logWebhookEvent(ctx, event, err)
	uc.recordWebhookEvent(event.Kind, err)

	return err
}

// applyPaymentOutcome is the single transition point shared by the webhook
// reconciler and the status poller. The repository compare-and-set
// guarantees at most one effective transition; losing the race or hitting a
// terminal order is a no-op success.
func (uc *DefaultCheckoutUsecase) applyPaymentOutcome(ctx context.Context, orderID uint, newStatus domain.OrderStatus, source string) error {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status.IsTerminal() {
		return nil
	}

	changed, err := uc.OrderRepo.TransitionStatus(ctx, orderID, domain.StatusPending, newStatus)
	if err != nil {
		return fmt.Errorf("failed to apply payment outcome: %w", err)
	}
	if !changed {
		// Raced with a concurrent reconciliation.
		return nil
	}

	slog.Info("order status transitioned",
		"order_id", order.ID,
		"order_number", order.Number,
		"from", string(domain.StatusPending),
		"to", string(newStatus),
		"source", source,
	)

	uc.publishTransition(order, newStatus)
	uc.recordTransition(order, newStatus, source)

	if newStatus == domain.StatusCompleted {
		uc.notifyCompleted(order)
	}

	return nil
}

func (uc *DefaultCheckoutUsecase) notifyCompleted(order *domain.Order) {
	items := make([]notifier.Item, len(order.LineItems))
	for i, item := range order.LineItems {
		items[i] = notifier.Item{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	uc.Notifier.Send(notifier.OrderNotification{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		Status:        string(domain.StatusCompleted),
		Total:         order.Total,
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		CustomerEmail: order.Customer.Email,
		Address:       order.Customer.Address,
		Comment:       order.Customer.Comment,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	})
}

func (uc *DefaultCheckoutUsecase) GetPaymentStatus(ctx context.Context, sessionID string, accountID uint) (*checkoutdto.PaymentStatusOutput, error) {
	order, err := uc.OrderRepo.GetOrderBySessionID(ctx, sessionID)
	if err != nil {
		uc.recordStatusPoll("not_found")
		return nil, err
	}

	// Owned orders require an exact owner match. Guest orders are readable
	// through the session id alone: it is a provider-issued capability.
	if order.OwnerID != nil && *order.OwnerID != accountID {
		uc.recordStatusPoll("forbidden")
		return nil, domain.ErrForbidden
	}

	start := time.Now()
	info, err := uc.Gateway.RetrieveSession(ctx, sessionID)
	uc.observeProviderCall("retrieve_session", start, err)
	if err != nil {
		uc.recordStatusPoll("provider_error")
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	// Self-healing: a lost or delayed webhook must not strand the order.
	if order.Status == domain.StatusPending {
		switch info.PaymentStatus {
		case domain.PaymentPaid:
			err = uc.applyPaymentOutcome(ctx, order.ID, domain.StatusCompleted, "poll")
		case domain.PaymentExpired:
			err = uc.applyPaymentOutcome(ctx, order.ID, domain.StatusCancelled, "poll")
		}
		if err != nil {
			return nil, err
		}

		order, err = uc.OrderRepo.GetOrderByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}

	uc.recordStatusPoll("ok")

	return &checkoutdto.PaymentStatusOutput{
		OrderID:        order.ID,
		OrderStatus:    string(order.Status),
		ProviderStatus: string(info.PaymentStatus),
	}, nil
}

func (uc *DefaultCheckoutUsecase) publishTransition(order *domain.Order, newStatus domain.OrderStatus) {
	eventType := publisher.EventOrderCompleted
	if newStatus == domain.StatusCancelled {
		eventType = publisher.EventOrderCancelled
	}

	go func(event publisher.OrderEvent) {
		if err := uc.Publisher.PublishOrder(event); err != nil {
			slog.Error("failed to publish kafka OrderEvent", "stage", "reconciliation", "error", err.Error())
		}
	}(publisher.OrderEvent{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      string(newStatus),
		Total:       order.Total,
		Email:       order.Customer.Email,
		OccurredAt:  time.Now(),
	})
}

func (uc *DefaultCheckoutUsecase) logWebhookEvent(ctx context.Context, event *domain.WebhookEvent, outcome error) {
	entry := logger.WebhookEventLog{
		ID:              uuid.NewString(),
		ProviderEventID: event.ProviderEventID,
		SessionID:       event.SessionID,
		OrderID:         event.OrderID,
		Kind:            string(event.Kind),
		Processed:       outcome == nil,
		ReceivedAt:      time.Now(),
	}
	if outcome != nil {
		entry.Error = outcome.Error()
	}

	if err := uc.EventLogger.LogWebhookEvent(ctx, entry); err != nil {
		slog.Error("failed to log webhook event", "provider_event_id", event.ProviderEventID, "error", err.Error())
	}
}
