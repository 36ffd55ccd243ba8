package favorites

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("storefront.favorites")

// Store is a set of favorited products keyed by product id.
type Store struct {
	mu    sync.Mutex
	repo  snapshot.Repository[Item]
	items []Item
}

func New(ctx context.Context, repo snapshot.Repository[Item]) *Store {
	s := &Store{repo: repo}

	items, err := repo.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
	case err != nil:
		logger.Warningf("loading favorites: %v", err)
	default:
		s.items = dedupe(items)
	}
	return s
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]Item, 0, len(s.items)), s.items...)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(id) >= 0
}

// Add inserts item unless a favorite with the same id already exists.
func (s *Store) Add(ctx context.Context, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(ctx, item)
}

func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(ctx, id)
}

// Toggle flips membership of item and reports whether it is now a favorite.
func (s *Store) Toggle(ctx context.Context, item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(item.ID) >= 0 {
		s.remove(ctx, item.ID)
		return false
	}
	s.add(ctx, item)
	return true
}

func (s *Store) add(ctx context.Context, item Item) {
	if s.index(item.ID) >= 0 {
		return
	}
	s.items = append(s.items, item)
	s.persist(ctx)
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

func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(context.WithoutCancel(ctx), s.items); err != nil {
		logger.Warningf("saving favorites: %v", err)
	}
}

// dedupe keeps the first entry per id; snapshots written elsewhere are not trusted to be a set.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
