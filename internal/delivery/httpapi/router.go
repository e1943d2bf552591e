package httpapi

import (
	"net/http"

	"github.com/bloomlane/bloom-order-service/internal/delivery/httpapi/handlers"
	authmw "github.com/bloomlane/bloom-order-service/internal/delivery/httpapi/middleware"
	"github.com/bloomlane/bloom-order-service/internal/usecase/checkout"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(uc checkout.CheckoutUsecase, jwtSecret string) http.Handler {
	checkoutHandler := handlers.NewCheckoutHandler(uc)
	webhookHandler := handlers.NewWebhookHandler(uc)
	adminHandler := handlers.NewAdminHandler(uc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Server-to-server callback, outside the auth stack on purpose.
		r.Post("/payments/webhook", webhookHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(authmw.Authenticate(jwtSecret))

			r.Post("/checkout", checkoutHandler.Create)

			// Guests poll with the session id alone; ownership is enforced
			// in the usecase for account-bound orders.
			r.Get("/payments/status/{session_id}", checkoutHandler.Status)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAuth)
				r.Use(authmw.RequireRole("admin"))
				r.Post("/admin/orders/purge-stale", adminHandler.PurgeStale)
			})
		})
	})

	return r
}
