// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_backend/internal/feature/catalog/domain/entity"
	"storefront_backend/internal/feature/catalog/usecase"
)

// DefaultProductTTL is used when no TTL is configured.
const DefaultProductTTL = 30 * time.Second

// CachingProductRepository decorates a ProductRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingProductRepository struct {
	inner     usecase.ProductRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository decorates a ProductRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "products".
// A nil rdb disables caching.
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns every product, checking the cache first.
func (c *CachingProductRepository) List(ctx context.Context) ([]entity.Product, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()
	var out []entity.Product
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID returns one product, checking the cache first. Misses are not cached.
func (c *CachingProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.itemKey(id)
	var p entity.Product
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	found, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

// Invalidate drops every cached entry of the namespace.
// Errors are logged, never returned: a stale entry expires with its TTL.
func (c *CachingProductRepository) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := deleteByPattern(ctx, c.rdb, c.namespace+":*"); err != nil {
		slog.Warn("product cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

// get decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingProductRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v (best effort).
func (c *CachingProductRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingProductRepository) listKey() string {
	return fmt.Sprintf("%s:all", c.namespace)
}

func (c *CachingProductRepository) itemKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}
