package favorites

import "github.com/shopspring/decimal"

// Item is the product snapshot kept when a visitor favorites a product.
type Item struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	MainImage     *string          `json:"main_image,omitempty"`
	Images        []string         `json:"images,omitempty"`
}
