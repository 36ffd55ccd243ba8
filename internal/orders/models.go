package orders

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phone_number"`
}

// LineItem is what the cart held for one product when the order was placed.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	Status          Status          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress Address         `json:"shipping_address"`
	BillingAddress  Address         `json:"billing_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	TrackingNumber  string          `json:"tracking_number"`
	Notes           string          `json:"notes"`

	ShippingMethod string           `json:"shipping_method,omitempty"`
	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	ShippingCost   *decimal.Decimal `json:"shipping_cost,omitempty"`
	Tax            *decimal.Decimal `json:"tax,omitempty"`
	Items          []LineItem       `json:"items,omitempty"`
}

func (o Order) clone() Order {
	o.Items = slices.Clone(o.Items)
	return o
}
