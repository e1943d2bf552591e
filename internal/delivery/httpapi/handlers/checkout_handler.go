package handlers

import (
	"errors"
	"net/http"

	"github.com/bloomlane/bloom-order-service/internal/delivery/httpapi/middleware"
	"github.com/bloomlane/bloom-order-service/internal/domain"
	"github.com/bloomlane/bloom-order-service/internal/usecase/checkout"
	checkoutdto "github.com/bloomlane/bloom-order-service/internal/usecase/dto/checkout"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type CheckoutHandler struct {
	uc checkout.CheckoutUsecase
}

func NewCheckoutHandler(uc checkout.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type createCheckoutRequest struct {
	Customer struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
		Comment string `json:"comment"`
	} `json:"customer"`
	Items []struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		UnitPrice   float64 `json:"unit_price"`
		Quantity    int     `json:"quantity"`
	} `json:"items"`
	Total float64 `json:"total"`
}

func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}

	input := &checkoutdto.CreateCheckoutInput{
		CustomerParams: checkoutdto.CustomerParams{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Email:   req.Customer.Email,
			Address: req.Customer.Address,
			Comment: req.Customer.Comment,
		},
		Total: req.Total,
	}
	for _, item := range req.Items {
		input.LineItems = append(input.LineItems, checkoutdto.LineItemParams{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	if accountID, ok := middleware.AccountID(r.Context()); ok {
		input.AccountID = accountID
	}

	output, err := h.uc.CreateCheckout(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrProviderRejected):
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "payment could not be started"})
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "internal error"})
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"checkout_url": output.RedirectURL,
		"session_id":   output.SessionID,
		"order_id":     output.OrderID,
		"order_number": output.OrderNumber,
	})
}

func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	accountID, _ := middleware.AccountID(r.Context())

	output, err := h.uc.GetPaymentStatus(r.Context(), sessionID, accountID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "order not found"})
		case errors.Is(err, domain.ErrForbidden):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, map[string]string{"error": "not the owner"})
		case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrProviderRejected):
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"error": "payment provider unavailable"})
		default:
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "internal error"})
		}
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":       output.ProviderStatus,
		"order_status": output.OrderStatus,
		"order_id":     output.OrderID,
	})
}
