// Package cart holds a visitor's cart line items and mirrors them to a
// snapshot repository after every change.
package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/juju/loggo"
	"github.com/shopspring/decimal"
)

var logger = loggo.GetLogger("storefront.cart")

type Store struct {
	mu    sync.Mutex
	repo  snapshot.Repository[Item]
	items []Item
}

// New loads the persisted cart. A missing or unreadable snapshot leaves the
// cart empty.
func New(ctx context.Context, repo snapshot.Repository[Item]) *Store {
	s := &Store{repo: repo}

	items, err := repo.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
	case err != nil:
		logger.Warningf("loading cart: %v", err)
	default:
		s.items = items
	}
	return s
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]Item, 0, len(s.items)), s.items...)
}

// AddItem increments the quantity of an existing line or appends a new one.
// A quantity below 1 counts as 1.
func (s *Store) AddItem(ctx context.Context, item Item, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(item.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		item.Quantity = quantity
		s.items = append(s.items, item)
	}
	s.persist(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(ctx, id)
}

// UpdateQuantity sets the absolute quantity of a line. Anything below 1
// removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 1 {
		s.remove(ctx, id)
		return
	}

	i := s.index(id)
	if i < 0 {
		return
	}
	s.items[i].Quantity = quantity
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Drain empties the cart and returns what it held, in one step.
func (s *Store) Drain(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items
	if len(items) == 0 {
		return []Item{}
	}
	s.items = nil
	s.persist(ctx)
	return items
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *Store) remove(ctx context.Context, id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persist(ctx)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

// persist must be called with mu held. The write is detached from ctx
// cancellation so an abandoned request cannot leave storage behind memory.
func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(context.WithoutCancel(ctx), s.items); err != nil {
		logger.Warningf("saving cart: %v", err)
	}
}
