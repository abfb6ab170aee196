package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/httpx/middlewares"
	"github.com/jcmexdev/storefront/pkg/auth"
)

func NewRouter(handler *Handler, signer *auth.Signer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)
	r.Get("/shipping-methods", handler.ShippingMethods)

	r.Route("/carts", func(r chi.Router) {
		r.Post("/", handler.CreateCart)
		r.Get("/{id}", handler.GetCart)
		r.Delete("/{id}", handler.DeleteCart)
		r.Post("/{id}/items", handler.AddCartItem)
		r.Put("/{id}/items/{lineID}", handler.UpdateCartItem)
		r.Delete("/{id}/items/{lineID}", handler.RemoveCartItem)
		r.Post("/{id}/promo", handler.ApplyPromo)
	})

	r.Route("/checkouts", func(r chi.Router) {
		r.Post("/", handler.StartCheckout)
		r.Get("/{id}", handler.GetCheckout)
		r.Put("/{id}/shipping", handler.SubmitShipping)
		r.Put("/{id}/payment", handler.SubmitPayment)
		r.Put("/{id}/gift", handler.SetGift)
		r.Post("/{id}/back", handler.Back)
		r.Post("/{id}/place", handler.PlaceOrder)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Get("/track", handler.TrackOrder)
		r.Get("/{id}", handler.GetOrder)
		r.Get("/{id}/watch", handler.WatchOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.RequireRole(signer, auth.RoleAdmin))
		r.Patch("/orders/{id}/status", handler.UpdateOrderStatus)
		r.Get("/orders/{id}/placement", handler.PlacementHistory)
	})

	r.Get("/notifications", handler.ListNotifications)
	r.Delete("/notifications/{id}", handler.DismissNotification)
	return r
}
