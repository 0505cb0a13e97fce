package router

import (
	"net/http"

	"shopcart/internal/handler"
	"shopcart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(cartHandler *handler.CartHandler, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", cartHandler.Create)
		r.Get("/{id}", cartHandler.Get)
		r.Post("/{id}/items", cartHandler.AddItem)
		r.Put("/{id}/items/{productId}", cartHandler.UpdateItem)
		r.Delete("/{id}/items/{productId}", cartHandler.RemoveItem)
		r.Post("/{id}/coupon", cartHandler.ApplyCoupon)
		r.Get("/{id}/operations", cartHandler.Operations)
	})

	return r
}
