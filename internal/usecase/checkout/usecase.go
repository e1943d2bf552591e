package checkout

import (
	"context"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/logger"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/metrics"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/notifier"
	checkoutdto "github.com/bloomlane/bloom-order-service/internal/usecase/dto/checkout"
)

type CheckoutUsecase interface {
	CreateCheckout(ctx context.Context, input *checkoutdto.CreateCheckoutInput) (*checkoutdto.CheckoutOutput, error)
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	GetPaymentStatus(ctx context.Context, sessionID string, accountID uint) (*checkoutdto.PaymentStatusOutput, error)

	ReconcileStalePending(ctx context.Context) error
	PurgeStalePending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// EventPublisher is the slice of the Kafka publisher the checkout flow needs.
type EventPublisher interface {
	PublishOrder(event publisher.OrderEvent) error
}

type DefaultCheckoutUsecase struct {
	OrderRepo       domain.OrderRepository
	Gateway         domain.PaymentGateway
	Accounts        domain.AccountDirectory
	EventLogger     logger.OrderEventLogger
	Publisher       EventPublisher
	Notifier        *notifier.Notifier
	Metrics         *metrics.OrderMetrics
	StalePendingTTL time.Duration
}

func NewDefaultCheckoutUsecase(
	orderRepo domain.OrderRepository,
	gateway domain.PaymentGateway,
	accounts domain.AccountDirectory,
	eventLogger logger.OrderEventLogger,
	eventPublisher EventPublisher,
	orderNotifier *notifier.Notifier,
	orderMetrics *metrics.OrderMetrics,
	stalePendingTTL time.Duration) *DefaultCheckoutUsecase {

	return &DefaultCheckoutUsecase{
		OrderRepo:       orderRepo,
		Gateway:         gateway,
		Accounts:        accounts,
		EventLogger:     eventLogger,
		Publisher:       eventPublisher,
		Notifier:        orderNotifier,
		Metrics:         orderMetrics,
		StalePendingTTL: stalePendingTTL,
	}
}
