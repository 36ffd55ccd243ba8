package cart_test

import (
	"errors"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyStorage(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()

	s := cart.New(t.Context(), repo)

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())

	// nothing is written until the first mutation
	_, ok := repo.Raw()
	assert.False(t, ok)
}

func TestNew_CorruptSnapshot(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	repo.SetRaw([]byte(`[{"id": 1`))

	s := cart.New(t.Context(), repo)

	assert.Empty(t, s.Items())
}

func TestNew_LegacyNumericPrices(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	repo.SetRaw([]byte(`[{"id":"p1","name":"Mug","price":12.5,"image":"/mug.png","quantity":2}]`))

	s := cart.New(t.Context(), repo)

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, decimal.RequireFromString("25").Equal(s.TotalPrice()))
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name       string
		quantities []int
		wantQty    int
	}{
		{name: "single add with default quantity: ok", quantities: []int{0}, wantQty: 1},
		{name: "repeated adds accumulate: ok", quantities: []int{1, 2, 3}, wantQty: 6},
		{name: "negative quantity counts as one: ok", quantities: []int{-4, 2}, wantQty: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
			item := randomItem()

			for _, q := range tt.quantities {
				s.AddItem(t.Context(), item, q)
			}

			items := s.Items()
			require.Len(t, items, 1)
			assert.Equal(t, item.ID, items[0].ID)
			assert.Equal(t, tt.wantQty, items[0].Quantity)
			assert.Equal(t, tt.wantQty, s.TotalItems())
		})
	}
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
	a, b, c := randomItem(), randomItem(), randomItem()

	s.AddItem(t.Context(), a, 1)
	s.AddItem(t.Context(), b, 1)
	s.AddItem(t.Context(), c, 1)
	s.AddItem(t.Context(), a, 1)

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids)
}

func TestRemoveItem(t *testing.T) {
	s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
	a, b := randomItem(), randomItem()
	s.AddItem(t.Context(), a, 1)
	s.AddItem(t.Context(), b, 2)

	s.RemoveItem(t.Context(), a.ID)
	s.RemoveItem(t.Context(), "missing")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestUpdateQuantity(t *testing.T) {
	s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
	a := randomItem()
	s.AddItem(t.Context(), a, 5)

	s.UpdateQuantity(t.Context(), a.ID, 2)
	assert.Equal(t, 2, s.TotalItems())

	s.UpdateQuantity(t.Context(), "missing", 7)
	assert.Equal(t, 2, s.TotalItems())
	assert.Len(t, s.Items(), 1)
}

func TestUpdateQuantityZero_EqualsRemove(t *testing.T) {
	a, b := randomItem(), randomItem()

	build := func(t *testing.T) *cart.Store {
		s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
		s.AddItem(t.Context(), a, 1)
		s.AddItem(t.Context(), b, 3)
		return s
	}

	updated := build(t)
	updated.UpdateQuantity(t.Context(), a.ID, 0)

	removed := build(t)
	removed.RemoveItem(t.Context(), a.ID)

	assert.Empty(t, cmp.Diff(removed.Items(), updated.Items()))
}

func TestTotals(t *testing.T) {
	s := cart.New(t.Context(), snapshot.NewMemory[cart.Item]())
	s.AddItem(t.Context(), cart.Item{ID: "a", Price: decimal.RequireFromString("9.99")}, 2)
	s.AddItem(t.Context(), cart.Item{ID: "b", Price: decimal.RequireFromString("0.01")}, 3)

	assert.Equal(t, 5, s.TotalItems())
	assert.Equal(t, "20.01", s.TotalPrice().StringFixed(2))
}

func TestClear(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	s := cart.New(t.Context(), repo)
	s.AddItem(t.Context(), randomItem(), 2)
	s.AddItem(t.Context(), randomItem(), 1)

	s.Clear(t.Context())

	assert.Zero(t, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())

	raw, ok := repo.Raw()
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestDrain(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	s := cart.New(t.Context(), repo)
	a, b := randomItem(), randomItem()
	s.AddItem(t.Context(), a, 2)
	s.AddItem(t.Context(), b, 1)

	got := s.Drain(t.Context())

	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, 2, got[0].Quantity)
	assert.Empty(t, s.Items())
	raw, _ := repo.Raw()
	assert.JSONEq(t, `[]`, string(raw))
}

func TestDrain_EmptyCartWritesNothing(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	s := cart.New(t.Context(), repo)

	assert.Empty(t, s.Drain(t.Context()))
	assert.Zero(t, repo.Saves())
}

func TestPersistence_RoundTrip(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	s := cart.New(t.Context(), repo)
	for range 4 {
		s.AddItem(t.Context(), randomItem(), gofakeit.IntRange(1, 5))
	}

	reloaded := cart.New(t.Context(), repo)

	assert.Empty(t, cmp.Diff(s.Items(), reloaded.Items()))
}

func TestPersistence_SaveFailureKeepsMemoryState(t *testing.T) {
	repo := snapshot.NewMemory[cart.Item]()
	s := cart.New(t.Context(), repo)
	s.AddItem(t.Context(), randomItem(), 1)

	repo.FailSaves(errors.New("quota exceeded"))
	s.AddItem(t.Context(), randomItem(), 1)

	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 1, repo.Saves())
}

func randomItem() cart.Item {
	return cart.Item{
		ID:    gofakeit.UUID(),
		Name:  gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Image: gofakeit.URL(),
	}
}
