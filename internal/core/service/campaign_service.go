package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

type CampaignService struct {
	repo     ports.CampaignRepository
	brands   ports.BrandRepository
	resolver *Resolver
	idem     ports.IdempotencyStore
	logger   zerolog.Logger
}

// NewCampaignService wires the campaign use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewCampaignService(
	repo ports.CampaignRepository,
	brands ports.BrandRepository,
	resolver *Resolver,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *CampaignService {
	return &CampaignService{repo: repo, brands: brands, resolver: resolver, idem: idem, logger: logger}
}

// Create inserts the campaign as pending, resolves the brand's matches and
// finalizes it as active with the match snapshot. A resolution NotFound
// removes the pending record; any other failure leaves it for recovery.
func (s *CampaignService) Create(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error) {
	key, existing, err := s.reserve(ctx, in.BrandID, in.IdempotencyKey)
	if err != nil || existing != nil {
		return existing, err
	}

	brand, err := s.brands.FindByID(ctx, in.BrandID)
	if err != nil {
		s.release(ctx, in.BrandID, key)
		return nil, err
	}

	campaign := &domain.Campaign{
		BrandID:        brand.ID,
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		Description:    in.Description,
		Budget:         in.Budget,
		TargetAudience: in.TargetAudience,
		Status:         domain.CampaignPending,
		TopInfluencers: []domain.TopInfluencer{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := campaign.Validate(); err != nil {
		s.release(ctx, brand.ID, key)
		return nil, err
	}

	pending, err := s.repo.Create(ctx, campaign)
	if err != nil {
		s.release(ctx, brand.ID, key)
		s.logger.Error().Err(err).Str("brand_id", brand.ID).Msg("failed to insert pending campaign")
		return nil, err
	}
	// a retry after a deferred failure replays the pending record
	if key != "" {
		if err := s.idem.Remember(ctx, brand.ID, key, pending.ID); err != nil {
			s.logger.Warn().Err(err).Str("campaign_id", pending.ID).Msg("failed to store idempotency key")
		}
	}

	res, err := s.resolver.Resolve(ctx, brand.Username)
	if err != nil {
		if isResolutionNotFound(err) {
			if delErr := s.repo.Delete(ctx, pending.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("campaign_id", pending.ID).Msg("failed to remove pending campaign")
			}
			s.release(ctx, brand.ID, key)
			metrics.CampaignsCreatedTotal.WithLabelValues("no_matches").Inc()
			return nil, err
		}
		s.logger.Warn().Err(err).Str("campaign_id", pending.ID).Msg("campaign left pending for recovery")
		metrics.CampaignsCreatedTotal.WithLabelValues("deferred").Inc()
		return nil, err
	}

	final, err := s.repo.Finalize(ctx, pending.ID, res.TopInfluencers)
	if err != nil {
		s.logger.Error().Err(err).Str("campaign_id", pending.ID).Msg("failed to finalize campaign")
		metrics.CampaignsCreatedTotal.WithLabelValues("deferred").Inc()
		return nil, err
	}

	metrics.CampaignsCreatedTotal.WithLabelValues("created").Inc()
	s.logger.Info().
		Str("campaign_id", final.ID).
		Str("brand", brand.Username).
		Str("tier", res.Tier).
		Int("influencers", len(final.TopInfluencers)).
		Msg("campaign created")
	s.populate(ctx, final)
	return final, nil
}

// reserve claims the Idempotency-Key before any write. It returns the key to
// bind when the caller now holds it, or the campaign a finished request with
// the same key created. Store errors are logged and the key is ignored.
func (s *CampaignService) reserve(ctx context.Context, brandID, key string) (string, *domain.Campaign, error) {
	if s.idem == nil || key == "" {
		return "", nil, nil
	}
	id, reserved, err := s.idem.Reserve(ctx, brandID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reservation failed")
		return "", nil, nil
	}
	if reserved {
		return key, nil, nil
	}
	if id == "" {
		metrics.CampaignsCreatedTotal.WithLabelValues("conflict").Inc()
		return "", nil, domain.ErrIdempotencyConflict
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if !c.OwnedBy(brandID) {
		return "", nil, domain.ErrForbidden
	}
	metrics.CampaignsCreatedTotal.WithLabelValues("replayed").Inc()
	s.logger.Info().Str("idempotency_key", key).Str("campaign_id", id).Msg("idempotent replay")
	s.populate(ctx, c)
	return "", c, nil
}

func (s *CampaignService) release(ctx context.Context, brandID, key string) {
	if key == "" {
		return
	}
	if err := s.idem.Release(ctx, brandID, key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// populate attaches current influencer profiles to a copy of the snapshot.
// Lookup failures are logged and the snapshot is returned as stored.
func (s *CampaignService) populate(ctx context.Context, c *domain.Campaign) {
	if len(c.TopInfluencers) == 0 {
		return
	}
	top := slices.Clone(c.TopInfluencers)
	if err := s.resolver.AttachProfiles(ctx, top); err != nil {
		s.logger.Warn().Err(err).Str("campaign_id", c.ID).Msg("failed to attach influencer profiles")
		return
	}
	c.TopInfluencers = top
}

func (s *CampaignService) Get(ctx context.Context, brandID, campaignID string) (*domain.Campaign, error) {
	c, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(brandID) {
		return nil, domain.ErrForbidden
	}

	brand, err := s.brands.FindByID(ctx, c.BrandID)
	if err != nil {
		s.logger.Warn().Err(err).Str("campaign_id", c.ID).Msg("failed to load campaign brand")
	} else {
		c.Brand = brand
	}
	s.populate(ctx, c)
	return c, nil
}

func (s *CampaignService) ListForBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error) {
	return s.repo.ListByBrand(ctx, brandID)
}

func (s *CampaignService) Delete(ctx context.Context, brandID, campaignID string) error {
	c, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if !c.OwnedBy(brandID) {
		s.logger.Warn().Str("campaign_id", campaignID).Str("brand_id", brandID).Msg("delete denied: not owner")
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, campaignID); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", campaignID).Msg("campaign deleted")
	return nil
}

// FinalizePending re-drives resolution for a campaign left pending. Campaigns
// that are gone or already finalized are skipped.
func (s *CampaignService) FinalizePending(ctx context.Context, campaignID string) error {
	c, err := s.repo.FindByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil
		}
		return err
	}
	if c.Status != domain.CampaignPending {
		return nil
	}

	brand, err := s.brands.FindByID(ctx, c.BrandID)
	if err != nil {
		if errors.Is(err, domain.ErrBrandNotFound) {
			metrics.CampaignsRecoveredTotal.WithLabelValues("orphaned").Inc()
			return s.repo.Delete(ctx, c.ID)
		}
		metrics.CampaignsRecoveredTotal.WithLabelValues("failed").Inc()
		return err
	}

	res, err := s.resolver.Resolve(ctx, brand.Username)
	if err != nil {
		if isResolutionNotFound(err) {
			metrics.CampaignsRecoveredTotal.WithLabelValues("no_matches").Inc()
			s.logger.Info().Str("campaign_id", c.ID).Msg("pending campaign has no matches, removing")
			return s.repo.Delete(ctx, c.ID)
		}
		metrics.CampaignsRecoveredTotal.WithLabelValues("failed").Inc()
		return err
	}

	if _, err := s.repo.Finalize(ctx, c.ID, res.TopInfluencers); err != nil {
		// finalized concurrently by another worker
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return nil
		}
		metrics.CampaignsRecoveredTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.CampaignsRecoveredTotal.WithLabelValues("finalized").Inc()
	s.logger.Info().Str("campaign_id", c.ID).Str("tier", res.Tier).Msg("pending campaign finalized")
	return nil
}

func isResolutionNotFound(err error) bool {
	return errors.Is(err, domain.ErrNoBrandMatches) || errors.Is(err, domain.ErrNoInfluencerProfiles)
}
