package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Load when nothing has been saved under the key yet.
var ErrNotFound = errors.New("snapshot not found")

// Repository persists a whole collection as one value.
type Repository[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// Encode marshals items as a JSON array. A nil slice encodes as [] rather than null.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func Decode[T any](b []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return items, nil
}

// Memory keeps the encoded snapshot in process. Used by tests and as a
// fallback when no Redis is configured.
type Memory[T any] struct {
	mu      sync.Mutex
	data    []byte
	present bool
	saves   int
	saveErr error
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{}
}

func (m *Memory[T]) Load(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.present {
		return nil, ErrNotFound
	}
	return Decode[T](m.data)
}

func (m *Memory[T]) Save(_ context.Context, items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	b, err := Encode(items)
	if err != nil {
		return err
	}
	m.data = b
	m.present = true
	m.saves++
	return nil
}

// Raw returns the stored bytes and whether anything was stored.
func (m *Memory[T]) Raw() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...), m.present
}

// SetRaw replaces the stored bytes verbatim, e.g. with corrupt content.
func (m *Memory[T]) SetRaw(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), b...)
	m.present = true
}

// FailSaves makes every following Save return err. Pass nil to recover.
func (m *Memory[T]) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves reports how many Save calls succeeded.
func (m *Memory[T]) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
