package checkout

import "github.com/shopspring/decimal"

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

var (
	shippingRates = map[ShippingMethod]decimal.Decimal{
		ShippingStandard:  decimal.NewFromInt(10),
		ShippingExpress:   decimal.NewFromInt(15),
		ShippingOvernight: decimal.NewFromInt(25),
	}

	TaxRate = decimal.RequireFromString("0.08")
)

func (m ShippingMethod) Valid() bool {
	_, ok := shippingRates[m]
	return ok
}

// ShippingCost falls back to the standard rate for unknown methods.
func ShippingCost(m ShippingMethod) decimal.Decimal {
	if rate, ok := shippingRates[m]; ok {
		return rate
	}
	return shippingRates[ShippingStandard]
}

type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func Price(subtotal decimal.Decimal, m ShippingMethod) Quote {
	shipping := ShippingCost(m)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}
}
