package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	tests := []struct {
		method ShippingMethod
		want   string
	}{
		{ShippingStandard, "10"},
		{ShippingExpress, "15"},
		{ShippingOvernight, "25"},
		{ShippingMethod("drone"), "10"},
		{ShippingMethod(""), "10"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.want, ShippingCost(tt.method).String())
		})
	}
}

func TestPrice(t *testing.T) {
	q := Price(decimal.RequireFromString("99.99"), ShippingExpress)

	assert.Equal(t, "99.99", q.Subtotal.String())
	assert.Equal(t, "15", q.Shipping.String())
	assert.Equal(t, "8.00", q.Tax.StringFixed(2))
	assert.Equal(t, "122.99", q.Total.StringFixed(2))
}

func TestPrice_EmptySubtotal(t *testing.T) {
	q := Price(decimal.Zero, ShippingStandard)

	assert.True(t, q.Tax.IsZero())
	assert.Equal(t, "10", q.Total.String())
}

func TestShippingMethod_Valid(t *testing.T) {
	assert.True(t, ShippingOvernight.Valid())
	assert.False(t, ShippingMethod("bogus").Valid())
	assert.False(t, ShippingMethod("").Valid())
}
