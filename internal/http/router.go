package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the full API surface. The download route sits
// outside RequireAuth: it is token-gated and must work for guests.
func NewRouter(
	products *ProductHandler,
	cart *CartHandler,
	orders *OrdersHandler,
	jwtSecret string,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthMiddleware(jwtSecret))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{product_id}", products.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/", cart.AddItem)
			r.Put("/{product_id}", cart.UpdateQuantity)
			r.Delete("/{product_id}", cart.RemoveItem)
			r.Delete("/", cart.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{order_id}/download", orders.Download)
			r.Post("/checkout", orders.Checkout)
			r.With(RequireAuth).Get("/", orders.ListOrders)
		})
	})

	return r
}
