package httpx

import (
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/checkout"
)

func (h *StorefrontHandler) quote(w http.ResponseWriter, r *http.Request) {
	m := checkout.ShippingMethod(r.URL.Query().Get("shipping_method"))
	writeJSON(w, http.StatusOK, h.Checkout.Quote(sessionFrom(r).Cart, m))
}

func (h *StorefrontHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	sess := sessionFrom(r)
	order, err := h.Checkout.PlaceOrder(r.Context(), sess.ID, sess.Cart, sess.Orders, req)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "empty_cart", err.Error())
		return
	case errors.Is(err, checkout.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		writeError(w, http.StatusConflict, "checkout_in_progress", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "checkout_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
