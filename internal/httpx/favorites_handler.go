package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/favorites"
	"github.com/go-chi/chi/v5"
)

type favoriteResp struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (h *StorefrontHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Favorites.Items())
}

func decodeFavorite(w http.ResponseWriter, r *http.Request) (favorites.Item, bool) {
	var item favorites.Item
	if !decodeJSON(w, r, &item) {
		return item, false
	}
	if item.ID == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "missing id")
		return item, false
	}
	return item, true
}

func (h *StorefrontHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	favs := sessionFrom(r).Favorites
	favs.Add(r.Context(), item)
	writeJSON(w, http.StatusOK, favs.Items())
}

func (h *StorefrontHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeFavorite(w, r)
	if !ok {
		return
	}
	on := sessionFrom(r).Favorites.Toggle(r.Context(), item)
	writeJSON(w, http.StatusOK, favoriteResp{ID: item.ID, Favorite: on})
}

func (h *StorefrontHandler) isFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, favoriteResp{ID: id, Favorite: sessionFrom(r).Favorites.IsFavorite(id)})
}

func (h *StorefrontHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	favs := sessionFrom(r).Favorites
	favs.Remove(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, favs.Items())
}
