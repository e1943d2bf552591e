package handlers

import (
	"net/http"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/usecase/checkout"
	"github.com/go-chi/render"
)

type AdminHandler struct {
	uc checkout.CheckoutUsecase
}

func NewAdminHandler(uc checkout.CheckoutUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type purgeStaleRequest struct {
	OlderThan string `json:"older_than"`
}

// PurgeStale bulk-deletes session-less pending orders older than the given
// age (default 72h).
func (h *AdminHandler) PurgeStale(w http.ResponseWriter, r *http.Request) {
	olderThan := 72 * time.Hour

	var req purgeStaleRequest
	if err := render.DecodeJSON(r.Body, &req); err == nil && req.OlderThan != "" {
		parsed, err := time.ParseDuration(req.OlderThan)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid older_than duration"})
			return
		}
		olderThan = parsed
	}

	deleted, err := h.uc.PurgeStalePending(r.Context(), olderThan)
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "internal error"})
		return
	}

	render.JSON(w, r, map[string]int64{"deleted": deleted})
}
