// Package session owns the per-visitor cart, favorites and order stores.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/favorites"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/juju/clock"
	"github.com/juju/loggo"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var logger = loggo.GetLogger("storefront.session")

var ErrEmptyID = errors.New("session id is empty")

type Session struct {
	ID        string
	Cart      *cart.Store
	Favorites *favorites.Store
	Orders    *orders.Store
}

// Repositories builds the snapshot repositories backing one session.
type Repositories interface {
	Cart(sessionID string) snapshot.Repository[cart.Item]
	Favorites(sessionID string) snapshot.Repository[favorites.Item]
	Orders(sessionID string) snapshot.Repository[orders.Order]
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

type Manager struct {
	repos Repositories
	clock clock.Clock

	mu       sync.Mutex
	sessions map[string]*entry
	sfg      singleflight.Group
}

func NewManager(repos Repositories, clk clock.Clock) *Manager {
	return &Manager{
		repos:    repos,
		clock:    clk,
		sessions: make(map[string]*entry),
	}
}

// Get returns the live session for id, loading its stores on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if s := m.lookup(id); s != nil {
		return s, nil
	}

	v, err, _ := m.sfg.Do(id, func() (interface{}, error) {
		if s := m.lookup(id); s != nil {
			return s, nil
		}

		// Loading must not be cut short by the first caller's request context.
		loadCtx := context.WithoutCancel(ctx)
		s := &Session{
			ID:        id,
			Cart:      cart.New(loadCtx, m.repos.Cart(id)),
			Favorites: favorites.New(loadCtx, m.repos.Favorites(id)),
			Orders:    orders.New(loadCtx, m.repos.Orders(id)),
		}

		m.mu.Lock()
		m.sessions[id] = &entry{sess: s, lastSeen: m.clock.Now()}
		m.mu.Unlock()
		logger.Debugf("session %s loaded", id)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Sweep forgets sessions not used for longer than idle and reports how many
// were dropped. Their snapshots stay in storage.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.clock.Now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	e.lastSeen = m.clock.Now()
	return e.sess
}

// RedisRepositories keeps every session collection in Redis.
type RedisRepositories struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r RedisRepositories) Cart(sessionID string) snapshot.Repository[cart.Item] {
	return redisx.NewSnapshot[cart.Item](r.Client, redisx.CartKey(sessionID), r.TTL)
}

func (r RedisRepositories) Favorites(sessionID string) snapshot.Repository[favorites.Item] {
	return redisx.NewSnapshot[favorites.Item](r.Client, redisx.FavoritesKey(sessionID), r.TTL)
}

func (r RedisRepositories) Orders(sessionID string) snapshot.Repository[orders.Order] {
	return redisx.NewSnapshot[orders.Order](r.Client, redisx.OrdersKey(sessionID), r.TTL)
}
