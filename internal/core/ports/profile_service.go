package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// PageRequest is a 1-based page request. Zero values fall back to defaults.
type PageRequest struct {
	Page  int64
	Limit int64
}

// DashboardPage is one page of the dashboard listing.
type DashboardPage struct {
	Influencers []*domain.DashboardInfluencer
	Page        int64
	TotalPages  int64
	Total       int64
}

// InfluencerService serves read-only influencer queries over both profile stores.
type InfluencerService interface {
	Top(ctx context.Context, limit int64) ([]*domain.Influencer, error)
	GetByID(ctx context.Context, id string) (*domain.Influencer, error)
	SearchByCategory(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error)
	Dashboard(ctx context.Context, req PageRequest) (*DashboardPage, error)
	SearchDashboard(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error)
	DashboardByUsername(ctx context.Context, username string) (*domain.DashboardInfluencer, error)
}

// BrandService serves brand profile and catalog queries.
type BrandService interface {
	Profile(ctx context.Context, brandID string) (*domain.Brand, error)
	UpdateProfile(ctx context.Context, brandID string, update domain.BrandProfileUpdate) (*domain.Brand, error)
	AvailableBrands(ctx context.Context) ([]domain.BrandSummary, error)
}
