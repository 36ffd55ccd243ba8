package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("storefront.orders")

// Store keeps a visitor's placed orders, most recent first.
type Store struct {
	mu     sync.Mutex
	repo   snapshot.Repository[Order]
	orders []Order
}

// New loads the persisted orders. When nothing has been persisted yet an
// empty list is written so the key exists from the first visit on.
func New(ctx context.Context, repo snapshot.Repository[Order]) *Store {
	s := &Store{repo: repo}

	orders, err := repo.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		s.persist(ctx)
	case err != nil:
		logger.Warningf("loading orders: %v", err)
	default:
		s.orders = orders
	}
	return s
}

func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.clone())
	}
	return out
}

// AddOrder prepends o as given; the caller owns its id and timestamps.
func (s *Store) AddOrder(ctx context.Context, o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]Order{o.clone()}, s.orders...)
	s.persist(ctx)
}

// UpdateOrderStatus moves the order to status. Only the status field changes.
// An unknown id is a no-op.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}
	if err := checkTransition(s.orders[i].Status, status); err != nil {
		return err
	}
	if s.orders[i].Status == status {
		return nil
	}

	s.orders[i].Status = status
	s.persist(ctx)
	return nil
}

func (s *Store) GetOrderByID(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Order{}, false
	}
	return s.orders[i].clone(), true
}

func (s *Store) index(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(context.WithoutCancel(ctx), s.orders); err != nil {
		logger.Warningf("saving orders: %v", err)
	}
}
