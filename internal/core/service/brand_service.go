package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

type BrandService struct {
	brands  ports.BrandRepository
	matches ports.BrandMatchRepository
	cache   ports.BrandCatalogCache
	logger  zerolog.Logger
}

// NewBrandService wires brand profile queries. cache may be nil.
func NewBrandService(brands ports.BrandRepository, matches ports.BrandMatchRepository, cache ports.BrandCatalogCache, logger zerolog.Logger) *BrandService {
	return &BrandService{brands: brands, matches: matches, cache: cache, logger: logger}
}

func (s *BrandService) Profile(ctx context.Context, brandID string) (*domain.Brand, error) {
	return s.brands.FindByID(ctx, brandID)
}

func (s *BrandService) UpdateProfile(ctx context.Context, brandID string, update domain.BrandProfileUpdate) (*domain.Brand, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Category = strings.TrimSpace(update.Category)
	if update.Name == "" && update.Bio == "" && update.Category == "" {
		return nil, domain.NewValidationError("nothing to update")
	}
	b, err := s.brands.UpdateProfile(ctx, brandID, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("brand_id", brandID).Msg("brand profile updated")
	return b, nil
}

// AvailableBrands lists the brands allowed to sign up. The list only changes
// on import, so it is served from the catalog cache when one is configured.
func (s *BrandService) AvailableBrands(ctx context.Context) ([]domain.BrandSummary, error) {
	if s.cache != nil {
		brands, found, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		case found:
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return brands, nil
		default:
			metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	brands, err := s.matches.AvailableBrands(ctx)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []domain.BrandSummary{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, brands); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return brands, nil
}
