package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elis-elis/bestbuy/internal/domain"
)

const (
	activeCatalogKey = "catalog:active"
	totalQuantityKey = "catalog:total_quantity"
)

// RedisCache caches catalog read results. Any stock mutation must invalidate
// it, otherwise sold-out products would keep showing as available.
type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		catalogTTL: catalogTTL,
	}
}

// GetActiveCatalog retrieves the cached active-catalog snapshot
func (c *RedisCache) GetActiveCatalog(ctx context.Context) ([]domain.ProductSpec, error) {
	val, err := c.client.Get(ctx, activeCatalogKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var specs []domain.ProductSpec
	if err := json.Unmarshal([]byte(val), &specs); err != nil {
		return nil, err
	}

	return specs, nil
}

// SetActiveCatalog stores the active-catalog snapshot
func (c *RedisCache) SetActiveCatalog(ctx context.Context, specs []domain.ProductSpec) error {
	data, err := json.Marshal(specs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeCatalogKey, data, c.catalogTTL).Err()
}

// GetTotalQuantity retrieves the cached store-wide stock total
func (c *RedisCache) GetTotalQuantity(ctx context.Context) (int, error) {
	val, err := c.client.Get(ctx, totalQuantityKey).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return val, nil
}

// SetTotalQuantity stores the store-wide stock total
func (c *RedisCache) SetTotalQuantity(ctx context.Context, total int) error {
	return c.client.Set(ctx, totalQuantityKey, total, c.catalogTTL).Err()
}

// InvalidateCatalog drops every catalog read key
func (c *RedisCache) InvalidateCatalog(ctx context.Context) error {
	return c.client.Del(ctx, activeCatalogKey, totalQuantityKey).Err()
}
