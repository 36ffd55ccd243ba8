package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortRating    = "rating"
)

type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// ProductQuery narrows a product listing. Zero values mean no filter.
type ProductQuery struct {
	Search     string
	CategoryID string
	ShopID     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	Page       int
	PerPage    int
}

// FilterProducts applies q to products and returns the requested page. The
// input slice is not modified.
func FilterProducts(products []Product, q ProductQuery) Page[Product] {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" && !containsFold(search, p.Name, p.Description) {
			continue
		}
		if q.CategoryID != "" && p.CategoryID != q.CategoryID {
			continue
		}
		if q.ShopID != "" && p.ShopID != q.ShopID {
			continue
		}
		price := p.EffectivePrice()
		if q.MinPrice != nil && price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b Product) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return a.EffectivePrice().Cmp(b.EffectivePrice()) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return b.EffectivePrice().Cmp(a.EffectivePrice()) })
	case SortName:
		slices.SortStableFunc(out, func(a, b Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	default:
		slices.SortStableFunc(out, func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}

	return paginate(out, q.Page, q.PerPage)
}

type ShopQuery struct {
	Search  string
	Sort    string
	Page    int
	PerPage int
}

// FilterShops searches shop names and descriptions. Shops sort by rating
// unless asked otherwise.
func FilterShops(shops []Shop, q ShopQuery) Page[Shop] {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Shop, 0, len(shops))
	for _, s := range shops {
		if search != "" && !containsFold(search, s.Name, s.Description) {
			continue
		}
		out = append(out, s)
	}

	switch q.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b Shop) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortNewest:
		slices.SortStableFunc(out, func(a, b Shop) int { return b.CreatedAt.Compare(a.CreatedAt) })
	default:
		slices.SortStableFunc(out, func(a, b Shop) int { return b.Rating.Cmp(a.Rating) })
	}

	return paginate(out, q.Page, q.PerPage)
}

func paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)
	page = max(page, 1)

	total := len(items)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	return Page[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
