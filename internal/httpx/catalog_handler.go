package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

const offersLimit = 10

type CatalogHandler struct {
	Source catalog.Source
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/products/{id}/reviews", h.productReviews)
	r.Get("/categories", h.listCategories)
	r.Get("/categories/{id}/products", h.categoryProducts)
	r.Get("/shops", h.listShops)
	r.Get("/shops/{id}", h.getShop)
	r.Get("/shops/{id}/products", h.shopProducts)
	r.Get("/offers", h.offers)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := productQuery(w, r.URL.Query())
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Source.ListProducts(ctx)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.FilterProducts(ps, q))
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Source.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) productReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	reviews, err := h.Source.ProductReviews(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cats, err := h.Source.ListCategories(ctx)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type categoryPage struct {
	Category catalog.Category `json:"category"`
	catalog.Page[catalog.Product]
}

func (h *CatalogHandler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := productQuery(w, r.URL.Query())
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	cat, err := h.Source.GetCategory(ctx, id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	ps, err := h.Source.ProductsByCategory(ctx, id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryPage{Category: cat, Page: catalog.FilterProducts(ps, q)})
}

func (h *CatalogHandler) listShops(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	page, perPage, ok := pagination(w, v)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	shops, err := h.Source.ListShops(ctx)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.FilterShops(shops, catalog.ShopQuery{
		Search:  v.Get("search"),
		Sort:    v.Get("sort"),
		Page:    page,
		PerPage: perPage,
	}))
}

func (h *CatalogHandler) getShop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Source.GetShop(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) shopProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := productQuery(w, r.URL.Query())
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if _, err := h.Source.GetShop(ctx, id); err != nil {
		writeCatalogError(w, err)
		return
	}
	ps, err := h.Source.ProductsByShop(ctx, id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog.FilterProducts(ps, q))
}

func (h *CatalogHandler) offers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	offers, err := h.Source.HomepageOffers(ctx, offersLimit)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog temporarily unavailable")
	default:
		logger.Errorf("catalog: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func productQuery(w http.ResponseWriter, v url.Values) (catalog.ProductQuery, bool) {
	q := catalog.ProductQuery{
		Search:     v.Get("search"),
		CategoryID: v.Get("category"),
		ShopID:     v.Get("shop"),
		Sort:       v.Get("sort"),
	}
	var ok bool
	if q.Page, q.PerPage, ok = pagination(w, v); !ok {
		return q, false
	}
	if q.MinPrice, ok = priceParam(w, v, "min_price"); !ok {
		return q, false
	}
	if q.MaxPrice, ok = priceParam(w, v, "max_price"); !ok {
		return q, false
	}
	return q, true
}

func pagination(w http.ResponseWriter, v url.Values) (page, perPage int, ok bool) {
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &page}, {"per_page", &perPage}} {
		s := v.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > 1_000_000 {
			writeError(w, http.StatusBadRequest, "invalid_query", "invalid "+p.name)
			return 0, 0, false
		}
		*p.dst = n
	}
	return page, perPage, true
}

func priceParam(w http.ResponseWriter, v url.Values, name string) (*decimal.Decimal, bool) {
	s := v.Get(name)
	if s == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "invalid "+name)
		return nil, false
	}
	return &d, true
}
