package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/logger"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/notifier"
	checkoutdto "github.com/bloomlane/bloom-order-service/internal/usecase/dto/checkout"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

func (uc *DefaultCheckoutUsecase) CreateCheckout(ctx context.Context, input *checkoutdto.CreateCheckoutInput) (*checkoutdto.CheckoutOutput, error) {
	if err := validateCheckoutInput(input); err != nil {
		return nil, err
	}

	order := &domain.Order{
		Number: newOrderNumber(),
		Status: domain.StatusPending,
		Customer: domain.Customer{
			Name:    input.Name,
			Phone:   input.Phone,
			Email:   input.Email,
			Address: input.Address,
			Comment: input.Comment,
		},
		LineItems: toDomainLineItems(input.LineItems),
		Total:     input.Total,
	}

	order.OwnerID = uc.resolveOwner(ctx, input)

	// The submitted total is trusted as-is. A deviation from the line-item
	// sum is made visible to operators, never rejected.
	if sum := order.LineItemsTotal(); math.Abs(sum-order.Total) > 0.01 {
		slog.Warn("submitted total deviates from line-item sum",
			"order_number", order.Number,
			"submitted", order.Total,
			"computed", sum,
		)
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	entries := make([]domain.PriceEntry, len(order.LineItems))
	for i, item := range order.LineItems {
		entries[i] = domain.PriceEntry{
			Name:            item.Name,
			Description:     item.Description,
			UnitAmountMinor: item.UnitAmountMinor(),
			Quantity:        int64(item.Quantity),
		}
	}

	start := time.Now()
	sess, err := uc.Gateway.CreateSession(ctx, domain.CreateSessionInput{
		OrderID:       order.ID,
		Items:         entries,
		CustomerEmail: order.Customer.Email,
	})
	uc.observeProviderCall("create_session", start, err)
	if err != nil {
		// The order stays PENDING without a session reference so support
		// staff can see the failed attempt.
		uc.recordCheckoutFailed(ctx, order, err)
		return nil, fmt.Errorf("failed to start checkout: %w", err)
	}

	if err := uc.OrderRepo.SetPaymentSession(ctx, order.ID, sess.ID); err != nil {
		return nil, fmt.Errorf("failed to store session reference: %w", err)
	}

	uc.sendOrderNotifications(order)
	uc.recordCheckoutCreated(order)

	slog.Info("checkout session created",
		"order_id", order.ID,
		"order_number", order.Number,
		"session_id", sess.ID,
	)

	return &checkoutdto.CheckoutOutput{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		SessionID:   sess.ID,
		RedirectURL: sess.RedirectURL,
	}, nil
}

func validateCheckoutInput(input *checkoutdto.CreateCheckoutInput) error {
	switch {
	case input.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case input.Phone == "":
		return fmt.Errorf("%w: phone is required", domain.ErrValidation)
	case input.Email == "":
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	case input.Address == "":
		return fmt.Errorf("%w: address is required", domain.ErrValidation)
	case len(input.LineItems) == 0:
		return fmt.Errorf("%w: at least one line item is required", domain.ErrValidation)
	case input.Total <= 0:
		return fmt.Errorf("%w: total must be positive", domain.ErrValidation)
	}

	for _, item := range input.LineItems {
		if item.Name == "" {
			return fmt.Errorf("%w: line item name is required", domain.ErrValidation)
		}
		if item.UnitPrice <= 0 {
			return fmt.Errorf("%w: line item unit price must be positive", domain.ErrValidation)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: line item quantity must be positive", domain.ErrValidation)
		}
	}

	return nil
}

// resolveOwner attaches the authenticated account, else best-effort matches
// the submitted email against existing accounts. A miss or a directory
// failure leaves the order a guest order.
func (uc *DefaultCheckoutUsecase) resolveOwner(ctx context.Context, input *checkoutdto.CreateCheckoutInput) *uint {
	if input.AccountID != 0 {
		id := input.AccountID
		return &id
	}

	id, ok, err := uc.Accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		slog.Warn("account lookup failed, keeping guest order", "error", err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &id
}

func toDomainLineItems(items []checkoutdto.LineItemParams) []domain.LineItem {
	lineItems := make([]domain.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = domain.LineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}
	return lineItems
}

func newOrderNumber() string {
	idGenerator, err := nanoid.CustomASCII("0123456789ABCDEFGHJKMNPQRSTVWXYZ", 12)
	if err != nil {
		// Alphabet and length are constants, Custom never fails on them.
		return uuid.NewString()
	}
	return idGenerator()
}

func (uc *DefaultCheckoutUsecase) sendOrderNotifications(order *domain.Order) {
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
		Status:        string(order.Status),
		Total:         order.Total,
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		CustomerEmail: order.Customer.Email,
		Address:       order.Customer.Address,
		Comment:       order.Customer.Comment,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	})

	go func(event publisher.OrderEvent) {
		if err := uc.Publisher.PublishOrder(event); err != nil {
			slog.Error("failed to publish kafka OrderEvent", "stage", "creation", "error", err.Error())
		}
	}(publisher.OrderEvent{
		EventID:     uuid.NewString(),
		EventType:   publisher.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Status:      string(order.Status),
		Total:       order.Total,
		Email:       order.Customer.Email,
		OccurredAt:  time.Now(),
	})
}

func (uc *DefaultCheckoutUsecase) recordCheckoutFailed(ctx context.Context, order *domain.Order, cause error) {
	reason := "provider_unavailable"
	if errors.Is(cause, domain.ErrProviderRejected) {
		reason = "provider_rejected"
	}
	uc.Metrics.CheckoutsFailedTotal.WithLabelValues(reason).Inc()

	if err := uc.EventLogger.LogCheckoutFailed(ctx, logger.CheckoutFailedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		CustomerEmail: order.Customer.Email,
		Total:         order.Total,
		Reason:        cause.Error(),
		Timestamp:     time.Now(),
	}); err != nil {
		slog.Error("failed to log checkout failure", "order_id", order.ID, "error", err.Error())
	}
}
