package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	"github.com/bloomlane/bloom-order-service/internal/usecase/checkout"
	"github.com/go-chi/render"
)

const maxWebhookBodyBytes = 1 << 20

// WebhookHandler terminates provider callbacks. No session auth and no CSRF
// here: the payload signature is the authentication boundary.
type WebhookHandler struct {
	uc checkout.CheckoutUsecase
}

func NewWebhookHandler(uc checkout.CheckoutUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "failed to read body"})
		return
	}

	err = h.uc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature), errors.Is(err, domain.ErrMalformedEvent):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid payload"})
		case errors.Is(err, domain.ErrOrderNotFound):
			// Non-2xx so the provider redelivers; a lost correlation has to
			// stay visible.
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "order not found"})
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "internal error"})
		}
		return
	}

	render.JSON(w, r, map[string]bool{"received": true})
}
