package ports

import (
	"context"
	"time"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// CampaignRepository defines persistence for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	FindByID(ctx context.Context, id string) (*domain.Campaign, error)
	// ListByBrand returns the brand's campaigns, newest first.
	ListByBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error)
	// Finalize stores the match snapshot and moves a pending campaign to active
	// in a single update. Returns domain.ErrCampaignNotFound when no pending
	// campaign with that id exists.
	Finalize(ctx context.Context, id string, top []domain.TopInfluencer) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	// FindPending returns campaigns still pending that were created before olderThan.
	FindPending(ctx context.Context, olderThan time.Time, limit int64) ([]*domain.Campaign, error)
}
