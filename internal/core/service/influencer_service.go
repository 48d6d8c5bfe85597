package service

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

const (
	DefaultDashboardLimit = 30
	DefaultTopLimit       = 10
	MaxPageLimit          = 100
)

type InfluencerService struct {
	influencers ports.InfluencerRepository
	dashboard   ports.DashboardInfluencerRepository
	logger      zerolog.Logger
}

func NewInfluencerService(influencers ports.InfluencerRepository, dashboard ports.DashboardInfluencerRepository, logger zerolog.Logger) *InfluencerService {
	return &InfluencerService{influencers: influencers, dashboard: dashboard, logger: logger}
}

func (s *InfluencerService) Top(ctx context.Context, limit int64) ([]*domain.Influencer, error) {
	return s.influencers.Top(ctx, clampLimit(limit, DefaultTopLimit))
}

func (s *InfluencerService) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	return s.influencers.FindByID(ctx, id)
}

func (s *InfluencerService) SearchByCategory(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.NewValidationError("category is required")
	}
	return s.influencers.SearchByCategory(ctx, category, clampLimit(limit, DefaultTopLimit))
}

// Dashboard returns one page of the dashboard store. The page query and the
// total count run concurrently.
func (s *InfluencerService) Dashboard(ctx context.Context, req ports.PageRequest) (*ports.DashboardPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := clampLimit(req.Limit, DefaultDashboardLimit)
	// keep (page-1)*limit inside int64
	if maxPage := math.MaxInt64 / limit; page > maxPage {
		page = maxPage
	}

	var (
		items []*domain.DashboardInfluencer
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.dashboard.List(gctx, page, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.dashboard.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int64("page", page).Msg("failed to load dashboard page")
		return nil, err
	}

	if items == nil {
		items = []*domain.DashboardInfluencer{}
	}
	return &ports.DashboardPage{
		Influencers: items,
		Page:        page,
		TotalPages:  totalPages(total, limit),
		Total:       total,
	}, nil
}

func (s *InfluencerService) SearchDashboard(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("Search query is required")
	}
	return s.dashboard.Search(ctx, query, clampLimit(limit, DefaultDashboardLimit))
}

func (s *InfluencerService) DashboardByUsername(ctx context.Context, username string) (*domain.DashboardInfluencer, error) {
	return s.dashboard.FindByUsername(ctx, username)
}

// clampLimit applies def to non-positive limits and caps at MaxPageLimit.
func clampLimit(limit, def int64) int64 {
	switch {
	case limit <= 0:
		return def
	case limit > MaxPageLimit:
		return MaxPageLimit
	}
	return limit
}

func totalPages(total, limit int64) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
