package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// BrandMatchRepository reads and rebuilds the precomputed match table.
type BrandMatchRepository interface {
	// FindTop returns up to limit rows matching q, ordered by
	// brand_match_score_scaled descending.
	FindTop(ctx context.Context, q domain.MatchQuery, limit int64) ([]*domain.BrandMatch, error)
	// FindFirst returns any row matching q or domain.ErrNoBrandMatches.
	FindFirst(ctx context.Context, q domain.MatchQuery) (*domain.BrandMatch, error)
	CountMatching(ctx context.Context, q domain.MatchQuery) (int64, error)
	// DistinctBrandUsernames returns up to limit distinct brand usernames.
	DistinctBrandUsernames(ctx context.Context, limit int) ([]string, error)
	// AvailableBrands groups rows by brand username, sorted by brand name.
	AvailableBrands(ctx context.Context) ([]domain.BrandSummary, error)
	ReplaceAll(ctx context.Context, items []*domain.BrandMatch) (int, error)
	Count(ctx context.Context) (int64, error)
}
