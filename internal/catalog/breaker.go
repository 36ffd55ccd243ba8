package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/juju/loggo"
	"github.com/sony/gobreaker/v2"
)

var logger = loggo.GetLogger("storefront.catalog")

type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// Breaker stops calling a failing Source until it has had time to recover.
// Lookups that miss are not failures.
type Breaker struct {
	next Source
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreaker(next Source, s BreakerSettings) *Breaker {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warningf("circuit %s: %s -> %s", name, from, to)
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	v, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (b *Breaker) ListProducts(ctx context.Context) ([]Product, error) {
	return execute(b, func() ([]Product, error) { return b.next.ListProducts(ctx) })
}

func (b *Breaker) GetProduct(ctx context.Context, id string) (Product, error) {
	return execute(b, func() (Product, error) { return b.next.GetProduct(ctx, id) })
}

func (b *Breaker) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	return execute(b, func() ([]Review, error) { return b.next.ProductReviews(ctx, productID) })
}

func (b *Breaker) ListCategories(ctx context.Context) ([]Category, error) {
	return execute(b, func() ([]Category, error) { return b.next.ListCategories(ctx) })
}

func (b *Breaker) GetCategory(ctx context.Context, id string) (Category, error) {
	return execute(b, func() (Category, error) { return b.next.GetCategory(ctx, id) })
}

func (b *Breaker) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	return execute(b, func() ([]Product, error) { return b.next.ProductsByCategory(ctx, categoryID) })
}

func (b *Breaker) ListShops(ctx context.Context) ([]Shop, error) {
	return execute(b, func() ([]Shop, error) { return b.next.ListShops(ctx) })
}

func (b *Breaker) GetShop(ctx context.Context, id string) (Shop, error) {
	return execute(b, func() (Shop, error) { return b.next.GetShop(ctx, id) })
}

func (b *Breaker) ProductsByShop(ctx context.Context, shopID string) ([]Product, error) {
	return execute(b, func() ([]Product, error) { return b.next.ProductsByShop(ctx, shopID) })
}

func (b *Breaker) HomepageOffers(ctx context.Context, limit int) ([]Offer, error) {
	return execute(b, func() ([]Offer, error) { return b.next.HomepageOffers(ctx, limit) })
}
