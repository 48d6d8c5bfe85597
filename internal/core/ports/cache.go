package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// BrandCatalogCache caches the available-brands list between imports.
type BrandCatalogCache interface {
	// Get reports found=false on a cache miss.
	Get(ctx context.Context) (brands []domain.BrandSummary, found bool, err error)
	Set(ctx context.Context, brands []domain.BrandSummary) error
	Invalidate(ctx context.Context) error
}

// IdempotencyStore binds an Idempotency-Key to the campaign it created.
type IdempotencyStore interface {
	// Reserve claims key for the caller. When the key is already held it
	// returns reserved=false and the stored campaign id, which is empty while
	// the holding request is still running.
	Reserve(ctx context.Context, brandID, key string) (campaignID string, reserved bool, err error)
	// Remember binds a reserved key to campaignID.
	Remember(ctx context.Context, brandID, key, campaignID string) error
	// Release drops a reservation so the key can be retried.
	Release(ctx context.Context, brandID, key string) error
}
