package stubapi

import (
	"net/http"

	"orderdesk/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter serves the order management API from store. limiter may be nil.
func NewRouter(store *Store, limiter *Limiter) http.Handler {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Get("/search", h.SearchCustomers)
		r.Post("/new", h.AddCustomer)
		r.Delete("/{id}", h.DeleteCustomer)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/search", h.SearchProducts)
		r.Post("/new", h.AddProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/search", h.SearchOrders)
		r.Post("/new", h.AddOrder)
		r.Delete("/{id}", h.DeleteOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Put("/{id}/paid", h.RecordPayment)
	})

	r.Route("/api/sms", func(r chi.Router) {
		r.Get("/", h.ListTransactions)
		r.Get("/unmatched", h.UnmatchedTransactions)
		r.Get("/{id}", h.GetTransaction)
		r.Post("/webhook", h.ReceiveSms)
		r.Put("/{id}/match", h.MatchTransaction)
		r.Delete("/{id}", h.DeleteTransaction)
	})

	return r
}
