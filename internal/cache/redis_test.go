package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkwon/go_storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testProducts() []*domain.Product {
	return []*domain.Product{
		{ID: uuid.New(), Name: "Wool Blanket", Price: 20000, StockQuantity: 5, IsActive: true, Category: "home"},
		{ID: uuid.New(), Name: "Ceramic Mug", Price: 8000, StockQuantity: 30, IsActive: true, Category: "kitchen"},
	}
}

func TestGetProducts_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	products := testProducts()

	// Manually set data in miniredis
	data, _ := json.Marshal(products)
	mr.Set(cacheKey("popular"), string(data))

	result, err := cache.GetProducts(ctx, "popular")
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "Wool Blanket", result[0].Name)
	assert.Equal(t, int64(20000), result[0].Price)
}

func TestGetProducts_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	result, err := cache.GetProducts(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGetProducts_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	data, err := json.Marshal(testProducts())
	require.NoError(t, err)
	truncated := data[0:10]
	e2 := mr.Set(cacheKey("popular"), string(truncated))
	require.NoError(t, e2)

	_, cacheError := cache.GetProducts(ctx, "popular")
	require.ErrorContains(t, cacheError, "unmarshal products failed")
}

func TestSetProducts_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	products := testProducts()

	err := cache.SetProducts(ctx, "popular", products)
	require.NoError(t, err)

	// Verify data was stored correctly in miniredis
	stored, e2 := mr.Get(cacheKey("popular"))
	assert.NotEmpty(t, stored)
	require.NoError(t, e2)

	var storedProducts []*domain.Product
	err = json.Unmarshal([]byte(stored), &storedProducts)
	require.NoError(t, err)
	assert.Len(t, storedProducts, 2)
	assert.Equal(t, products[0].ID, storedProducts[0].ID)
}

func TestSetProducts_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	err := cache.SetProducts(ctx, "popular", []*domain.Product{})
	require.NoError(t, err)

	// Check that TTL was set (miniredis tracks TTL)
	ttl := mr.TTL(cacheKey("popular"))
	assert.True(t, ttl >= 5*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 6*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	data, _ := json.Marshal(testProducts())
	mr.Set(cacheKey("popular"), string(data))
	assert.True(t, mr.Exists(cacheKey("popular")))

	err := cache.Delete(ctx, "popular")
	require.NoError(t, err)

	assert.False(t, mr.Exists(cacheKey("popular")))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	// Deleting non-existent key should not error
	err := cache.Delete(ctx, "nonexistent")
	assert.NoError(t, err)
}

func TestCacheKey_Format(t *testing.T) {
	key := cacheKey("list:category=home")
	assert.Equal(t, "catalog:list:category=home", key)
}
