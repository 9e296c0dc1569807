package cache

import (
	"context"
	"errors"

	"github.com/dkwon/go_storefront/internal/domain"
)

// CatalogCache holds product listings keyed by filter. It is display-path
// only; stock and active checks always read the database.
type CatalogCache interface {
	GetProducts(ctx context.Context, key string) ([]*domain.Product, error)
	SetProducts(ctx context.Context, key string, products []*domain.Product) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
