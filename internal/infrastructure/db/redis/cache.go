package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/astrape/storefront/internal/api/metrics"
	"github.com/astrape/storefront/internal/core/ports"
)

const catalogTTL = 5 * time.Minute

// CatalogCache is a best-effort cache-aside store for upstream catalog
// responses. Failures are logged and ignored; the caller falls back to the
// upstream fetch.
type CatalogCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewCatalogCache(client *redis.Client, log zerolog.Logger) *CatalogCache {
	return &CatalogCache{client: client, log: log}
}

func (c *CatalogCache) GetPage(ctx context.Context, key string) (*ports.ProductPage, bool) {
	var page ports.ProductPage
	if !c.get(ctx, "catalog:page:"+key, &page) {
		return nil, false
	}
	return &page, true
}

func (c *CatalogCache) SetPage(ctx context.Context, key string, page *ports.ProductPage) {
	c.set(ctx, "catalog:page:"+key, page)
}

func (c *CatalogCache) GetCategories(ctx context.Context) ([]string, bool) {
	var categories []string
	if !c.get(ctx, "catalog:categories", &categories) {
		return nil, false
	}
	return categories, true
}

func (c *CatalogCache) SetCategories(ctx context.Context, categories []string) {
	c.set(ctx, "catalog:categories", categories)
}

func (c *CatalogCache) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		}
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("catalog cache entry unreadable")
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, catalogTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
