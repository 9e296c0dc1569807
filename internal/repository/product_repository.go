package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/google/uuid"
)

const ProductsPerPage = 12

type ProductSort string

const (
	ProductSortLatest    ProductSort = "latest"
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
)

// ProductFilter narrows the catalog listing. Zero values mean no filter.
type ProductFilter struct {
	Category string
	MinPrice int64
	MaxPrice int64
	Sort     ProductSort
	Page     int
}

// CacheKey is a stable string form of the filter, used by the catalog cache.
func (f ProductFilter) CacheKey() string {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("products:%s:%d:%d:%s:%d", f.Category, f.MinPrice, f.MaxPrice, f.Sort, page)
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	ListPopularProducts(ctx context.Context, limit int) ([]*domain.Product, error)
}

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(category, ''), stock_quantity, is_active, created_at, updated_at`

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.StockQuantity,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}

	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE`
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}

	switch filter.Sort {
	case ProductSortPriceAsc:
		query += " ORDER BY price ASC, created_at DESC"
	case ProductSortPriceDesc:
		query += " ORDER BY price DESC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, ProductsPerPage, (page-1)*ProductsPerPage)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryProducts(ctx, query, args...)
}

// ListPopularProducts returns the most recently added active products.
// TODO: rank by sales once order volume is tracked.
func (r *Repository) ListPopularProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE is_active = TRUE ORDER BY created_at DESC LIMIT $1`
	return r.queryProducts(ctx, query, limit)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.StockQuantity,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}
