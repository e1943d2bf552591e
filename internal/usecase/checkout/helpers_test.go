package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	publisher "github.com/bloomlane/bloom-order-service/internal/infrastructure/kafka"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/logger"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/metrics"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/notifier"
	checkoutdto "github.com/bloomlane/bloom-order-service/internal/usecase/dto/checkout"
)

// Prometheus collectors register on the default registry, so the bundle is
// created once for the whole test binary.
var testMetrics = metrics.NewOrderMetrics()

type fakeOrderRepo struct {
	mu          sync.Mutex
	nextID      uint
	orders      map[uint]*domain.Order
	transitions int

	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*domain.Order)}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, orderID uint) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetOrderBySessionID(_ context.Context, sessionID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.PaymentSessionID != nil && *order.PaymentSessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) SetPaymentSession(_ context.Context, orderID uint, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.PaymentSessionID = &sessionID
	return nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, orderID uint, fromStatus, newStatus domain.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok || order.Status != fromStatus {
		return false, nil
	}
	order.Status = newStatus
	r.transitions++
	return true, nil
}

func (r *fakeOrderRepo) FindStalePending(_ context.Context, cutoff time.Time) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stale []*domain.Order
	for _, order := range r.orders {
		if order.Status == domain.StatusPending && order.CreatedAt.Before(cutoff) {
			copied := *order
			stale = append(stale, &copied)
		}
	}
	return stale, nil
}

func (r *fakeOrderRepo) DeleteStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, order := range r.orders {
		if order.Status == domain.StatusPending && order.PaymentSessionID == nil && order.CreatedAt.Before(cutoff) {
			delete(r.orders, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeOrderRepo) mustGet(orderID uint) domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.orders[orderID]
}

func (r *fakeOrderRepo) transitionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transitions
}

func (r *fakeOrderRepo) put(order *domain.Order) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders[order.ID] = order
	return order.ID
}

type fakeGateway struct {
	createSessionFn   func(ctx context.Context, input domain.CreateSessionInput) (*domain.CheckoutSession, error)
	retrieveSessionFn func(ctx context.Context, sessionID string) (*domain.SessionInfo, error)
	parseWebhookFn    func(payload []byte, signatureHeader string) (*domain.WebhookEvent, error)
}

func (g *fakeGateway) CreateSession(ctx context.Context, input domain.CreateSessionInput) (*domain.CheckoutSession, error) {
	return g.createSessionFn(ctx, input)
}

func (g *fakeGateway) RetrieveSession(ctx context.Context, sessionID string) (*domain.SessionInfo, error) {
	return g.retrieveSessionFn(ctx, sessionID)
}

func (g *fakeGateway) ParseWebhook(payload []byte, signatureHeader string) (*domain.WebhookEvent, error) {
	return g.parseWebhookFn(payload, signatureHeader)
}

type fakeAccounts struct {
	id  uint
	ok  bool
	err error
}

func (a *fakeAccounts) FindByEmail(context.Context, string) (uint, bool, error) {
	return a.id, a.ok, a.err
}

type fakeEventLogger struct {
	mu              sync.Mutex
	webhookEvents   []logger.WebhookEventLog
	checkoutFailed  []logger.CheckoutFailedEvent
}

func (l *fakeEventLogger) LogWebhookEvent(_ context.Context, event logger.WebhookEventLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.webhookEvents = append(l.webhookEvents, event)
	return nil
}

func (l *fakeEventLogger) LogCheckoutFailed(_ context.Context, event logger.CheckoutFailedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.checkoutFailed = append(l.checkoutFailed, event)
	return nil
}

func (l *fakeEventLogger) webhookLogCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.webhookEvents)
}

func (l *fakeEventLogger) checkoutFailedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.checkoutFailed)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publisher.OrderEvent
}

func (p *fakePublisher) PublishOrder(event publisher.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []publisher.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publisher.OrderEvent(nil), p.events...)
}

type usecaseFixture struct {
	uc          *DefaultCheckoutUsecase
	repo        *fakeOrderRepo
	gateway     *fakeGateway
	accounts    *fakeAccounts
	eventLogger *fakeEventLogger
	pub         *fakePublisher
}

func newFixture() *usecaseFixture {
	repo := newFakeOrderRepo()
	gateway := &fakeGateway{}
	accounts := &fakeAccounts{}
	eventLogger := &fakeEventLogger{}
	pub := &fakePublisher{}

	uc := NewDefaultCheckoutUsecase(
		repo,
		gateway,
		accounts,
		eventLogger,
		pub,
		notifier.New(""),
		testMetrics,
		24*time.Hour,
	)

	return &usecaseFixture{
		uc:          uc,
		repo:        repo,
		gateway:     gateway,
		accounts:    accounts,
		eventLogger: eventLogger,
		pub:         pub,
	}
}

func validInput() *checkoutdto.CreateCheckoutInput {
	return &checkoutdto.CreateCheckoutInput{
		CustomerParams: checkoutdto.CustomerParams{
			Name:    "Nora Bell",
			Phone:   "+15550100",
			Email:   "nora@example.com",
			Address: "12 Garden Lane",
			Comment: "ring the bell twice",
		},
		LineItems: []checkoutdto.LineItemParams{
			{Name: "Peony bouquet", Description: "12 stems", UnitPrice: 45.50, Quantity: 2},
			{Name: "Greeting card", UnitPrice: 4.00, Quantity: 1},
		},
		Total: 95.00,
	}
}
