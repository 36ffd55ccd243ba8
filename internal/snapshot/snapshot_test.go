package snapshot_test

import (
	"errors"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func TestMemory_LoadEmpty(t *testing.T) {
	m := snapshot.NewMemory[entry]()

	items, err := m.Load(t.Context())
	require.ErrorIs(t, err, snapshot.ErrNotFound)
	assert.Nil(t, items)
}

func TestMemory_SaveNilWritesEmptyArray(t *testing.T) {
	m := snapshot.NewMemory[entry]()

	require.NoError(t, m.Save(t.Context(), nil))

	raw, ok := m.Raw()
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestMemory_RoundTrip(t *testing.T) {
	m := snapshot.NewMemory[entry]()
	want := []entry{{ID: "a", Qty: 1}, {ID: "b", Qty: 3}}

	require.NoError(t, m.Save(t.Context(), want))

	got, err := m.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, m.Saves())
}

func TestMemory_Corrupt(t *testing.T) {
	m := snapshot.NewMemory[entry]()
	m.SetRaw([]byte(`{not json`))

	_, err := m.Load(t.Context())
	require.ErrorContains(t, err, "decode snapshot")
	assert.NotErrorIs(t, err, snapshot.ErrNotFound)
}

func TestMemory_FailSaves(t *testing.T) {
	m := snapshot.NewMemory[entry]()
	quota := errors.New("quota exceeded")
	m.FailSaves(quota)

	err := m.Save(t.Context(), []entry{{ID: "a"}})
	require.ErrorIs(t, err, quota)

	_, ok := m.Raw()
	assert.False(t, ok)
	assert.Zero(t, m.Saves())
}
