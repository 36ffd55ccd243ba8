package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `
	p.id, p.name, p.description, p.price, p.discount_price, p.stock_quantity,
	COALESCE(p.category_id, ''), COALESCE(c.name, ''), COALESCE(p.shop_id, ''), COALESCE(s.name, ''),
	p.main_image, p.images, p.is_active, p.specifications, p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN shops s ON s.id = p.shop_id`

// ListProducts returns every active product, newest first.
func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.is_active ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *Repo) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.is_active AND p.category_id=$1 ORDER BY p.created_at DESC`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("products by category %s: %w", categoryID, err)
	}
	return collectProducts(rows)
}

func (r *Repo) ProductsByShop(ctx context.Context, shopID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.is_active AND p.shop_id=$1 ORDER BY p.created_at DESC`, shopID)
	if err != nil {
		return nil, fmt.Errorf("products by shop %s: %w", shopID, err)
	}
	return collectProducts(rows)
}

func (r *Repo) ProductReviews(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, product_id, user_name, rating, comment, created_at
		FROM reviews WHERE product_id=$1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("product reviews %s: %w", productID, err)
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `SELECT id, name, description, created_at FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

const shopColumns = `id, name, description, address, logo_url, background_image_url,
	rating, delivery_time_from, delivery_time_to, is_active, created_at`

func (r *Repo) ListShops(ctx context.Context) ([]Shop, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+shopColumns+` FROM shops WHERE is_active ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	out := []Shop{}
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetShop(ctx context.Context, id string) (Shop, error) {
	s, err := scanShop(r.DB.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Shop{}, ErrNotFound
	}
	if err != nil {
		return Shop{}, fmt.Errorf("get shop %s: %w", id, err)
	}
	return s, nil
}

// HomepageOffers returns the latest offers, each with its products in the
// order they were attached.
func (r *Repo) HomepageOffers(ctx context.Context, limit int) ([]Offer, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, title FROM homepage_offers ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("homepage offers: %w", err)
	}
	offers := []Offer{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		o.Products = []Product{}
		index[o.ID] = len(offers)
		offers = append(offers, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("homepage offers: %w", err)
	}
	if len(ids) == 0 {
		return offers, nil
	}

	rows, err = r.DB.Query(ctx, `SELECT op.offer_id, `+productColumns+productFrom+`
		JOIN homepage_offer_products op ON op.product_id = p.id
		WHERE op.offer_id = ANY($1) ORDER BY op.offer_id DESC, op.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("offer products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var offerID int64
		p, err := scanProduct(rows, &offerID)
		if err != nil {
			return nil, fmt.Errorf("scan offer product: %w", err)
		}
		i := index[offerID]
		offers[i].Products = append(offers[i].Products, p)
	}
	return offers, rows.Err()
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanProduct reads productColumns, after any leading destinations.
func scanProduct(row pgx.Row, leading ...any) (Product, error) {
	var (
		p        Product
		discount decimal.NullDecimal
		specs    []byte
	)
	dest := append(leading,
		&p.ID, &p.Name, &p.Description, &p.Price, &discount, &p.StockQuantity,
		&p.CategoryID, &p.CategoryName, &p.ShopID, &p.ShopName,
		&p.MainImage, &p.Images, &p.IsActive, &specs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return Product{}, err
	}
	if discount.Valid {
		p.DiscountPrice = &discount.Decimal
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Specifications = specs
	return p, nil
}

func scanShop(row pgx.Row) (Shop, error) {
	var s Shop
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Address, &s.LogoURL, &s.BackgroundImageURL,
		&s.Rating, &s.DeliveryTimeFrom, &s.DeliveryTimeTo, &s.IsActive, &s.CreatedAt)
	return s, err
}
