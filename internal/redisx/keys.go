package redisx

import (
	"fmt"
	"time"
)

const (
	// Per-session collections: storefront:{session_id}:{collection} -> JSON array
	KeyCartItems     = "storefront:%s:cart-items"
	KeyFavoriteItems = "storefront:%s:favorite-items"
	KeyUserOrders    = "storefront:%s:user-orders"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)

func CartKey(sessionID string) string      { return fmt.Sprintf(KeyCartItems, sessionID) }
func FavoritesKey(sessionID string) string { return fmt.Sprintf(KeyFavoriteItems, sessionID) }
func OrdersKey(sessionID string) string    { return fmt.Sprintf(KeyUserOrders, sessionID) }
func DedupKey(service, id string) string   { return fmt.Sprintf(KeyDedup, service, id) }
