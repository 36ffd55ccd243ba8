package httpx

import (
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/go-chi/chi/v5"
)

// StorefrontHandler serves the per-visitor routes. Mount it behind
// WithSession.
type StorefrontHandler struct {
	Checkout *checkout.Service
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Delete("/cart", h.clearCart)
	r.Post("/cart/items", h.addCartItem)
	r.Put("/cart/items/{id}", h.updateCartItem)
	r.Delete("/cart/items/{id}", h.removeCartItem)

	r.Get("/favorites", h.listFavorites)
	r.Post("/favorites", h.addFavorite)
	r.Post("/favorites/toggle", h.toggleFavorite)
	r.Get("/favorites/{id}", h.isFavorite)
	r.Delete("/favorites/{id}", h.removeFavorite)

	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}/status", h.updateOrderStatus)

	r.Get("/checkout/quote", h.quote)
	r.Post("/checkout", h.placeOrder)
}
