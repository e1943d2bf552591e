package domain

import "context"

// PaymentStatus is the provider-reported state of a checkout session.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentExpired PaymentStatus = "expired"
)

// WebhookEventKind is the closed set of provider event types the reconciler
// dispatches on. Anything else is EventUnknown and must be acknowledged
// without state change.
type WebhookEventKind string

const (
	EventCheckoutCompleted  WebhookEventKind = "checkout_completed"
	EventAsyncPaymentFailed WebhookEventKind = "async_payment_failed"
	EventUnknown            WebhookEventKind = "unknown"
)

type WebhookEvent struct {
	ProviderEventID string
	Kind            WebhookEventKind
	SessionID       string
	OrderID         uint
}

type PriceEntry struct {
	Name            string
	Description     string
	UnitAmountMinor int64
	Quantity        int64
}

type CreateSessionInput struct {
	OrderID       uint
	Items         []PriceEntry
	CustomerEmail string
}

type CheckoutSession struct {
	ID          string
	RedirectURL string
}

type SessionInfo struct {
	ID            string
	PaymentStatus PaymentStatus
	Metadata      map[string]string
}

// PaymentGateway is the narrow contract the core consumes from the hosted
// checkout provider.
type PaymentGateway interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// ParseWebhook verifies the payload signature and maps the provider
	// event onto the closed WebhookEventKind set. ErrInvalidSignature on a
	// bad signature, no exceptions.
	ParseWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
