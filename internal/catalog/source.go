package catalog

import "context"

// Source is everything the HTTP layer reads from the catalog. Repo is the
// postgres implementation, Breaker wraps any Source.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ProductReviews(ctx context.Context, productID string) ([]Review, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error)

	ListShops(ctx context.Context) ([]Shop, error)
	GetShop(ctx context.Context, id string) (Shop, error)
	ProductsByShop(ctx context.Context, shopID string) ([]Product, error)

	HomepageOffers(ctx context.Context, limit int) ([]Offer, error)
}
