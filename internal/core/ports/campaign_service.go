package ports

import (
	"context"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// CreateCampaignInput carries the data needed to create a campaign.
type CreateCampaignInput struct {
	BrandID        string
	Name           string
	Category       string
	Description    string
	Budget         float64
	TargetAudience domain.TargetAudience
	// IdempotencyKey is optional; a repeated key returns the campaign it created.
	IdempotencyKey string
}

// CampaignService defines the campaign use cases. Every operation is scoped to
// the calling brand.
type CampaignService interface {
	Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error)
	Get(ctx context.Context, brandID, campaignID string) (*domain.Campaign, error)
	ListForBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error)
	Delete(ctx context.Context, brandID, campaignID string) error
	// FinalizePending resumes a campaign left pending by an interrupted create.
	FinalizePending(ctx context.Context, campaignID string) error
}
