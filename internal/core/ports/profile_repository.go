package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// BrandRepository defines persistence for brand profiles.
type BrandRepository interface {
	// Create returns domain.ErrUsernameTaken when the username is already used.
	Create(ctx context.Context, brand *domain.Brand) (*domain.Brand, error)
	FindByID(ctx context.Context, id string) (*domain.Brand, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Brand, error)
	FindByUsername(ctx context.Context, username string) (*domain.Brand, error)
	UpdateProfile(ctx context.Context, id string, update domain.BrandProfileUpdate) (*domain.Brand, error)
	UpdateUsername(ctx context.Context, id, username string) error
	List(ctx context.Context, limit int64) ([]*domain.Brand, error)
	Count(ctx context.Context) (int64, error)
}

// InfluencerRepository defines persistence for the primary influencer store.
type InfluencerRepository interface {
	Create(ctx context.Context, inf *domain.Influencer) (*domain.Influencer, error)
	FindByID(ctx context.Context, id string) (*domain.Influencer, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Influencer, error)
	FindByUsername(ctx context.Context, username string) (*domain.Influencer, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]*domain.Influencer, error)
	// FindByIDs returns the profiles that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Influencer, error)
	// ClaimOwner sets the owner of an unowned profile. Returns
	// domain.ErrUsernameTaken when another user already owns it.
	ClaimOwner(ctx context.Context, id, userID string) error
	// Top returns profiles sorted by engagement rate then followers, descending.
	Top(ctx context.Context, limit int64) ([]*domain.Influencer, error)
	SearchByCategory(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error)
	ReplaceAll(ctx context.Context, items []*domain.Influencer) (int, error)
	Count(ctx context.Context) (int64, error)
}

// DashboardInfluencerRepository defines persistence for the secondary,
// dashboard-only influencer store.
type DashboardInfluencerRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.DashboardInfluencer, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]*domain.DashboardInfluencer, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.DashboardInfluencer, error)
	// List returns one page sorted by engagement rate then followers, descending.
	List(ctx context.Context, page, limit int64) ([]*domain.DashboardInfluencer, error)
	// Search matches query case-insensitively as a substring of name, username or category.
	Search(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error)
	ReplaceAll(ctx context.Context, items []*domain.DashboardInfluencer) (int, error)
	Count(ctx context.Context) (int64, error)
}
