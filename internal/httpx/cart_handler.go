package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type cartResp struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *StorefrontHandler) writeCart(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r).Cart
	writeJSON(w, http.StatusOK, cartResp{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	})
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r)
}

func (h *StorefrontHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var item cart.Item
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.ID == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "missing id")
		return
	}
	sessionFrom(r).Cart.AddItem(r.Context(), item, item.Quantity)
	h.writeCart(w, r)
}

func (h *StorefrontHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if !decodeJSON(w, r, &req) {
		return
	}
	sessionFrom(r).Cart.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	h.writeCart(w, r)
}

func (h *StorefrontHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Cart.RemoveItem(r.Context(), chi.URLParam(r, "id"))
	h.writeCart(w, r)
}

func (h *StorefrontHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).Cart.Clear(r.Context())
	h.writeCart(w, r)
}
