// Package catalog serves the read-only product, category and shop data the
// storefront browses.
package catalog

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Product struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	StockQuantity  int              `json:"stock_quantity"`
	CategoryID     string           `json:"category_id"`
	CategoryName   string           `json:"category_name,omitempty"`
	ShopID         string           `json:"shop_id"`
	ShopName       string           `json:"shop_name,omitempty"`
	MainImage      *string          `json:"main_image,omitempty"`
	Images         []string         `json:"images"`
	IsActive       bool             `json:"is_active"`
	Specifications json.RawMessage  `json:"specifications,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// EffectivePrice is what the visitor pays: the discount price when one is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Shop struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Address            string          `json:"address"`
	LogoURL            string          `json:"logo_url,omitempty"`
	BackgroundImageURL string          `json:"background_image_url,omitempty"`
	Rating             decimal.Decimal `json:"rating"`
	DeliveryTimeFrom   int             `json:"delivery_time_from"`
	DeliveryTimeTo     int             `json:"delivery_time_to"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Offer is a homepage promotion grouping a handful of products.
type Offer struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Products []Product `json:"products"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
