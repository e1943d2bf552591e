package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder(f *usecaseFixture, sessionID string) uint {
	order := &domain.Order{
		Number:           "TESTORDER001",
		Status:           domain.StatusPending,
		Customer:         domain.Customer{Name: "Nora Bell", Email: "nora@example.com"},
		Total:            95.00,
		PaymentSessionID: &sessionID,
	}
	return f.repo.put(order)
}

func stubWebhook(f *usecaseFixture, event *domain.WebhookEvent, err error) {
	f.gateway.parseWebhookFn = func([]byte, string) (*domain.WebhookEvent, error) {
		return event, err
	}
}

func TestHandleWebhook_CompletedEventTransitionsOrder(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_1",
		Kind:            domain.EventCheckoutCompleted,
		SessionID:       "cs_1",
		OrderID:         orderID,
	}, nil)

	err := f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, f.repo.mustGet(orderID).Status)
	assert.Equal(t, 1, f.eventLogger.webhookLogCount())

	require.Eventually(t, func() bool {
		return len(f.pub.published()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, publisher.EventOrderCompleted, f.pub.published()[0].EventType)
}

func TestHandleWebhook_FailedEventCancelsOrder(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_1",
		Kind:            domain.EventAsyncPaymentFailed,
		SessionID:       "cs_1",
		OrderID:         orderID,
	}, nil)

	err := f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.repo.mustGet(orderID).Status)
}

func TestHandleWebhook_RedeliveryIsNoOp(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_1",
		Kind:            domain.EventCheckoutCompleted,
		SessionID:       "cs_1",
		OrderID:         orderID,
	}, nil)

	require.NoError(t, f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	require.NoError(t, f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, domain.StatusCompleted, f.repo.mustGet(orderID).Status)
	assert.Equal(t, 1, f.repo.transitionCount())
	// Every delivery is logged, the no-op redelivery included.
	assert.Equal(t, 2, f.eventLogger.webhookLogCount())
}

func TestHandleWebhook_TerminalStatusIsNeverOverwritten(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_1",
		Kind:            domain.EventCheckoutCompleted,
		SessionID:       "cs_1",
		OrderID:         orderID,
	}, nil)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_2",
		Kind:            domain.EventAsyncPaymentFailed,
		SessionID:       "cs_1",
		OrderID:         orderID,
	}, nil)
	require.NoError(t, f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	assert.Equal(t, domain.StatusCompleted, f.repo.mustGet(orderID).Status)
}

func TestHandleWebhook_BadSignatureChangesNothing(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, nil, domain.ErrInvalidSignature)

	err := f.uc.HandleWebhook(context.Background(), []byte("{}"), "bad-sig")
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	assert.Equal(t, domain.StatusPending, f.repo.mustGet(orderID).Status)
	assert.Equal(t, 0, f.eventLogger.webhookLogCount())
}

func TestHandleWebhook_UnknownEventAcknowledged(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_9",
		Kind:            domain.EventUnknown,
	}, nil)

	err := f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, f.repo.mustGet(orderID).Status)
	assert.Equal(t, 1, f.eventLogger.webhookLogCount())
}

func TestHandleWebhook_UnknownOrderPropagatesNotFound(t *testing.T) {
	f := newFixture()
	stubWebhook(f, &domain.WebhookEvent{
		ProviderEventID: "evt_1",
		Kind:            domain.EventCheckoutCompleted,
		SessionID:       "cs_missing",
		OrderID:         999,
	}, nil)

	err := f.uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestHandleWebhook_ConcurrentDeliveriesTransitionOnce(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		kind := domain.EventCheckoutCompleted
		if i%2 == 1 {
			kind = domain.EventAsyncPaymentFailed
		}
		event := &domain.WebhookEvent{
			ProviderEventID: "evt_race",
			Kind:            kind,
			SessionID:       "cs_1",
			OrderID:         orderID,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			g := &fakeGateway{parseWebhookFn: func([]byte, string) (*domain.WebhookEvent, error) {
				return event, nil
			}}
			uc := *f.uc
			uc.Gateway = g
			_ = uc.HandleWebhook(context.Background(), []byte("{}"), "sig")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.repo.transitionCount())
	assert.True(t, f.repo.mustGet(orderID).Status.IsTerminal())
}

func TestGetPaymentStatus_OwnedOrderRequiresOwner(t *testing.T) {
	f := newFixture()
	owner := uint(7)
	sessionID := "cs_owned"
	f.repo.put(&domain.Order{
		Number:           "OWNED0000001",
		Status:           domain.StatusPending,
		OwnerID:          &owner,
		PaymentSessionID: &sessionID,
	})
	f.gateway.retrieveSessionFn = func(_ context.Context, id string) (*domain.SessionInfo, error) {
		return &domain.SessionInfo{ID: id, PaymentStatus: domain.PaymentUnpaid}, nil
	}

	_, err := f.uc.GetPaymentStatus(context.Background(), sessionID, 8)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	output, err := f.uc.GetPaymentStatus(context.Background(), sessionID, 7)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), output.OrderStatus)
	assert.Equal(t, string(domain.PaymentUnpaid), output.ProviderStatus)
}

func TestGetPaymentStatus_GuestOrderReadableBySessionID(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_guest")
	f.gateway.retrieveSessionFn = func(_ context.Context, id string) (*domain.SessionInfo, error) {
		return &domain.SessionInfo{ID: id, PaymentStatus: domain.PaymentUnpaid}, nil
	}

	output, err := f.uc.GetPaymentStatus(context.Background(), "cs_guest", 0)
	require.NoError(t, err)
	assert.Equal(t, orderID, output.OrderID)
}

func TestGetPaymentStatus_UnknownSessionNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.uc.GetPaymentStatus(context.Background(), "cs_missing", 0)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetPaymentStatus_HealsPaidPendingOrder(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	f.gateway.retrieveSessionFn = func(_ context.Context, id string) (*domain.SessionInfo, error) {
		return &domain.SessionInfo{ID: id, PaymentStatus: domain.PaymentPaid}, nil
	}

	output, err := f.uc.GetPaymentStatus(context.Background(), "cs_1", 0)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCompleted), output.OrderStatus)
	assert.Equal(t, domain.StatusCompleted, f.repo.mustGet(orderID).Status)
}

func TestGetPaymentStatus_HealsExpiredPendingOrder(t *testing.T) {
	f := newFixture()
	orderID := pendingOrder(f, "cs_1")
	f.gateway.retrieveSessionFn = func(_ context.Context, id string) (*domain.SessionInfo, error) {
		return &domain.SessionInfo{ID: id, PaymentStatus: domain.PaymentExpired}, nil
	}

	output, err := f.uc.GetPaymentStatus(context.Background(), "cs_1", 0)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), output.OrderStatus)
	assert.Equal(t, domain.StatusCancelled, f.repo.mustGet(orderID).Status)
}
