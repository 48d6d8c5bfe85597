package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

const (
	catalogKey        = "catalog:available-brands"
	defaultCatalogTTL = 10 * time.Minute
)

// CatalogCache stores the available-brands list as one JSON value.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) Get(ctx context.Context) ([]domain.BrandSummary, bool, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("catalog get: %w", err)
	}
	var brands []domain.BrandSummary
	if err := json.Unmarshal(raw, &brands); err != nil {
		return nil, false, fmt.Errorf("catalog decode: %w", err)
	}
	return brands, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, brands []domain.BrandSummary) error {
	raw, err := json.Marshal(brands)
	if err != nil {
		return fmt.Errorf("catalog encode: %w", err)
	}
	return c.client.Set(ctx, catalogKey, raw, c.ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
