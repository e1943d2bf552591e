package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bloomlane/bloom-order-service/internal/config"
	"github.com/bloomlane/bloom-order-service/internal/domain"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const metadataOrderID = "order_id"

// Gateway implements domain.PaymentGateway over Stripe hosted Checkout.
// Credentials come in through config; nothing touches the package-level
// stripe.Key global.
type Gateway struct {
	api *client.API
	cfg config.Stripe
}

func NewGateway(cfg config.Stripe) *Gateway {
	return &Gateway{
		api: client.New(cfg.SecretKey, nil),
		cfg: cfg,
	}
}

func (g *Gateway) CreateSession(ctx context.Context, input domain.CreateSessionInput) (*domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(input.Items))
	for i, item := range input.Items {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.cfg.Currency),
				UnitAmount: stripe.Int64(item.UnitAmountMinor),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
			},
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
		LineItems:  lineItems,
	}
	params.Context = ctx
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}
	// Correlation travels as session metadata, independent of the session
	// reference write on our side.
	params.AddMetadata(metadataOrderID, strconv.FormatUint(uint64(input.OrderID), 10))

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &domain.CheckoutSession{
		ID:          sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

func (g *Gateway) RetrieveSession(ctx context.Context, sessionID string) (*domain.SessionInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &domain.SessionInfo{
		ID:            sess.ID,
		PaymentStatus: mapPaymentStatus(sess),
		Metadata:      sess.Metadata,
	}, nil
}

func (g *Gateway) ParseWebhook(payload []byte, signatureHeader string) (*domain.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	var kind domain.WebhookEventKind
	switch string(event.Type) {
	case "checkout.session.completed":
		kind = domain.EventCheckoutCompleted
	case "checkout.session.async_payment_failed":
		kind = domain.EventAsyncPaymentFailed
	default:
		return &domain.WebhookEvent{
			ProviderEventID: event.ID,
			Kind:            domain.EventUnknown,
		}, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}

	orderID, err := strconv.ParseUint(sess.Metadata[metadataOrderID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: missing or invalid %s metadata", domain.ErrMalformedEvent, metadataOrderID)
	}

	return &domain.WebhookEvent{
		ProviderEventID: event.ID,
		Kind:            kind,
		SessionID:       sess.ID,
		OrderID:         uint(orderID),
	}, nil
}

func mapPaymentStatus(sess *stripe.CheckoutSession) domain.PaymentStatus {
	if sess.Status == stripe.CheckoutSessionStatusExpired {
		return domain.PaymentExpired
	}
	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		return domain.PaymentPaid
	}
	return domain.PaymentUnpaid
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeInvalidRequest, stripe.ErrorTypeCard, stripe.ErrorTypeIdempotency:
			return fmt.Errorf("%w: %s", domain.ErrProviderRejected, stripeErr.Msg)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
