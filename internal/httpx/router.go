// Package httpx is the HTTP presentation layer: a thin collaborator that
// translates requests into calls on the POS core and subscribes the
// configured observers to the orders it creates.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", handler.ListMenu)
		r.Post("/items", handler.CreateMenuItem)
		r.Delete("/items/{id}", handler.RemoveMenuItem)
		r.Patch("/items/{id}/availability", handler.SetMenuItemAvailability)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/{id}", handler.GetOrder)
		r.Post("/{id}/items", handler.AddOrderItem)
		r.Delete("/{id}/items/{itemID}", handler.RemoveOrderItem)
		r.Patch("/{id}/status", handler.SetOrderStatus)
		r.Post("/{id}/bill", handler.GenerateBill)
		r.Post("/{id}/checkout", handler.Checkout)
		r.Get("/{id}/history", handler.OrderHistory)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", handler.ProcessPayment)
		r.Post("/{id}/refund", handler.RefundPayment)
	})

	return r
}
