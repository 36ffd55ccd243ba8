package httpx

import (
	"errors"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

type statusReq struct {
	Status orders.Status `json:"status"`
}

func (h *StorefrontHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Orders.Orders())
}

func (h *StorefrontHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := sessionFrom(r).Orders.GetOrderByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *StorefrontHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if !decodeJSON(w, r, &req) {
		return
	}

	book := sessionFrom(r).Orders
	id := chi.URLParam(r, "id")
	err := book.UpdateOrderStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, orders.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, "unknown_status", err.Error())
		return
	case errors.Is(err, orders.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	o, ok := book.GetOrderByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
