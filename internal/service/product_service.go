package service

import (
	"context"
	"errors"
	"log"

	"github.com/dkwon/go_storefront/internal/cache"
	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/dkwon/go_storefront/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const popularProductsLimit = 8

type ProductService struct {
	repo  repository.ProductRepository
	cache cache.CatalogCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewProductService(repo repository.ProductRepository, cache cache.CatalogCache) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
	}
}

// ListProducts serves the catalog listing through the cache. A miss falls
// through to the database; concurrent misses of the same key are collapsed
// with singleflight.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.cached(ctx, filter.CacheKey(), func() ([]*domain.Product, error) {
		return s.repo.ListProducts(ctx, filter)
	})
}

func (s *ProductService) PopularProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.cached(ctx, "popular", func() ([]*domain.Product, error) {
		return s.repo.ListPopularProducts(ctx, popularProductsLimit)
	})
}

func (s *ProductService) cached(ctx context.Context, key string, load func() ([]*domain.Product, error)) ([]*domain.Product, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {

		products, err := s.cache.GetProducts(ctx, key)
		if err == nil {
			return products, nil // listing is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		products, errLoad := load()
		if errLoad != nil {
			return nil, errLoad
		}

		// set cache
		go func() {
			errSet := s.cache.SetProducts(context.Background(), key, products)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return products, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]*domain.Product), nil
}

// GetProduct reads the database directly: detail pages show live stock.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}
