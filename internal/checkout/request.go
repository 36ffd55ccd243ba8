package checkout

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/orders"
)

const defaultCountry = "IL"

type Request struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`

	ShippingMethod ShippingMethod       `json:"shipping_method"`
	PaymentMethod  orders.PaymentMethod `json:"payment_method"`

	SameAsShipping bool   `json:"same_as_shipping"`
	BillingAddress string `json:"billing_address"`
	BillingCity    string `json:"billing_city"`
	BillingState   string `json:"billing_state"`
	BillingZipCode string `json:"billing_zip_code"`

	Notes string `json:"notes"`
}

// normalize fills defaults and rejects requests that cannot become an order.
func (r Request) normalize() (Request, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"address", r.Address},
		{"city", r.City},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return r, fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}

	if r.Country == "" {
		r.Country = defaultCountry
	}
	if r.ShippingMethod == "" {
		r.ShippingMethod = ShippingStandard
	}
	if !r.ShippingMethod.Valid() {
		return r, fmt.Errorf("%w: unknown shipping method %q", ErrInvalidRequest, r.ShippingMethod)
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = orders.PaymentCard
	}
	if !r.PaymentMethod.Valid() {
		return r, fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, r.PaymentMethod)
	}
	return r, nil
}

func (r Request) fullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

func (r Request) shippingAddress() orders.Address {
	return orders.Address{
		FullName:     r.fullName(),
		AddressLine1: r.Address,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.ZipCode,
		Country:      r.Country,
		PhoneNumber:  r.Phone,
	}
}

// billingAddress copies the shipping address, or takes each billing field
// that was filled in and the shipping value for the rest.
func (r Request) billingAddress() orders.Address {
	addr := r.shippingAddress()
	if r.SameAsShipping {
		return addr
	}
	addr.AddressLine1 = firstNonEmpty(r.BillingAddress, r.Address)
	addr.City = firstNonEmpty(r.BillingCity, r.City)
	addr.State = firstNonEmpty(r.BillingState, r.State)
	addr.PostalCode = firstNonEmpty(r.BillingZipCode, r.ZipCode)
	return addr
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
