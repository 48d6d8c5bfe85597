package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

const (
	defaultMatchLimit = 10
	sampleBrandsLimit = 10
	tierNone          = "none"
	// tierError labels resolutions aborted by a store failure.
	tierError = "error"
)

// MatchStrategy is one tier of brand username resolution. Query returns
// ok=false when the tier has nothing new to try for the given username.
type MatchStrategy struct {
	Name  string
	Query func(username string) (q domain.MatchQuery, ok bool)
}

// DefaultMatchStrategies returns the resolution tiers in the order they are tried.
func DefaultMatchStrategies() []MatchStrategy {
	return []MatchStrategy{
		{
			Name: "exact",
			Query: func(u string) (domain.MatchQuery, bool) {
				return domain.MatchQuery{Username: u, Mode: domain.MatchExact}, u != ""
			},
		},
		{
			Name: "case_fold",
			Query: func(u string) (domain.MatchQuery, bool) {
				return domain.MatchQuery{Username: u, Mode: domain.MatchCaseFold}, u != ""
			},
		},
		{
			Name: "trimmed_case_fold",
			Query: func(u string) (domain.MatchQuery, bool) {
				trimmed := strings.TrimSpace(u)
				// identical input already failed the case_fold tier
				return domain.MatchQuery{Username: trimmed, Mode: domain.MatchCaseFold}, trimmed != "" && trimmed != u
			},
		},
		{
			Name: "substring",
			Query: func(u string) (domain.MatchQuery, bool) {
				return domain.MatchQuery{Username: u, Mode: domain.MatchSubstring}, strings.TrimSpace(u) != ""
			},
		},
	}
}

// Resolution is the outcome of resolving a brand against the match table and
// reconciling the matched influencers with the profile stores.
type Resolution struct {
	Tier           string
	Matches        []*domain.BrandMatch
	TopInfluencers []domain.TopInfluencer
	Dropped        int
	FromSecondary  int
}

// Resolver turns a stored brand username into a ranked influencer snapshot.
type Resolver struct {
	matches    ports.BrandMatchRepository
	primary    ports.InfluencerRepository
	secondary  ports.DashboardInfluencerRepository
	strategies []MatchStrategy
	limit      int64
	log        zerolog.Logger
}

// NewResolver builds a Resolver. When strategies is empty the default tiers are used.
func NewResolver(
	matches ports.BrandMatchRepository,
	primary ports.InfluencerRepository,
	secondary ports.DashboardInfluencerRepository,
	strategies []MatchStrategy,
	log zerolog.Logger,
) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultMatchStrategies()
	}
	return &Resolver{
		matches:    matches,
		primary:    primary,
		secondary:  secondary,
		strategies: strategies,
		limit:      defaultMatchLimit,
		log:        log,
	}
}

// FindMatches tries each strategy in order and returns the first non-empty
// result with the name of the tier that produced it. When every tier comes up
// empty it returns a *domain.NoMatchesError listing sample brand usernames.
func (r *Resolver) FindMatches(ctx context.Context, username string) (string, []*domain.BrandMatch, error) {
	for _, s := range r.strategies {
		q, ok := s.Query(username)
		if !ok {
			continue
		}
		rows, err := r.matches.FindTop(ctx, q, r.limit)
		if err != nil {
			return tierError, nil, fmt.Errorf("find matches (%s): %w", s.Name, err)
		}
		if len(rows) > 0 {
			return s.Name, rows, nil
		}
		r.log.Debug().Str("brand", username).Str("tier", s.Name).Msg("no match rows for tier")
	}

	sample, err := r.matches.DistinctBrandUsernames(ctx, sampleBrandsLimit)
	if err != nil {
		return tierError, nil, fmt.Errorf("sample brand usernames: %w", err)
	}
	return tierNone, nil, &domain.NoMatchesError{Username: username, AvailableBrands: sample}
}

// Resolve runs FindMatches and reconciles the matched influencer usernames
// against the primary store, falling back to the dashboard store per row.
// Rows without a profile in either store are dropped.
func (r *Resolver) Resolve(ctx context.Context, username string) (*Resolution, error) {
	start := time.Now()
	defer func() { metrics.ResolutionDuration.Observe(time.Since(start).Seconds()) }()

	tier, rows, err := r.FindMatches(ctx, username)
	metrics.MatchResolutionTotal.WithLabelValues(tier).Inc()
	if err != nil {
		return nil, err
	}

	profiles, err := r.lookupProfiles(ctx, rows)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Tier: tier, Matches: rows}
	for _, m := range rows {
		p, ok := profiles[m.InfluencerUsername]
		if !ok {
			res.Dropped++
			r.log.Warn().Str("brand", username).Str("influencer", m.InfluencerUsername).Msg("profile not found for matched influencer")
			continue
		}
		if p.Source == domain.SourceDashboardInfluencers {
			res.FromSecondary++
		}
		metrics.ProfilesResolvedTotal.WithLabelValues(string(p.Source)).Inc()
		res.TopInfluencers = append(res.TopInfluencers, domain.TopInfluencer{
			InfluencerID:       p.ID,
			InfluencerUsername: p.Username,
			InfluencerName:     p.Name,
			Category:           p.Category,
			Followers:          p.Followers,
			Source:             p.Source,
			BrandMatchScore:    m.BrandMatchScoreScaled,
			MatchData:          m.Scores,
		})
	}
	metrics.ProfilesDroppedTotal.Add(float64(res.Dropped))

	r.log.Info().
		Str("brand", username).
		Str("tier", tier).
		Int("matches", len(rows)).
		Int("resolved", len(res.TopInfluencers)).
		Int("from_dashboard", res.FromSecondary).
		Int("dropped", res.Dropped).
		Msg("brand matches resolved")

	if len(res.TopInfluencers) == 0 {
		return nil, fmt.Errorf("brand %q: %w", username, domain.ErrNoInfluencerProfiles)
	}
	return res, nil
}

// lookupProfiles batches one query per store: the primary store for every
// matched username, then the dashboard store for the usernames still missing.
func (r *Resolver) lookupProfiles(ctx context.Context, rows []*domain.BrandMatch) (map[string]domain.ProfileRef, error) {
	usernames := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, m := range rows {
		if _, dup := seen[m.InfluencerUsername]; dup {
			continue
		}
		seen[m.InfluencerUsername] = struct{}{}
		usernames = append(usernames, m.InfluencerUsername)
	}

	found := make(map[string]domain.ProfileRef, len(usernames))
	primary, err := r.primary.FindByUsernames(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("lookup influencer profiles: %w", err)
	}
	for _, inf := range primary {
		found[inf.Username] = inf.Ref()
	}

	missing := make([]string, 0, len(usernames)-len(found))
	for _, u := range usernames {
		if _, ok := found[u]; !ok {
			missing = append(missing, u)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	secondary, err := r.secondary.FindByUsernames(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("lookup dashboard profiles: %w", err)
	}
	for _, d := range secondary {
		found[d.Username] = d.Ref()
	}
	return found, nil
}

// AttachProfiles sets Profile on each entry from the store named by its
// Source. Entries whose profile no longer exists keep a nil Profile. The
// snapshot fields are left untouched.
func (r *Resolver) AttachProfiles(ctx context.Context, top []domain.TopInfluencer) error {
	var primaryIDs, secondaryIDs []string
	for _, t := range top {
		if t.Source == domain.SourceDashboardInfluencers {
			secondaryIDs = append(secondaryIDs, t.InfluencerID)
		} else {
			primaryIDs = append(primaryIDs, t.InfluencerID)
		}
	}

	var (
		primary   []*domain.Influencer
		secondary []*domain.DashboardInfluencer
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(primaryIDs) > 0 {
		g.Go(func() (err error) {
			primary, err = r.primary.FindByIDs(gctx, primaryIDs)
			return err
		})
	}
	if len(secondaryIDs) > 0 {
		g.Go(func() (err error) {
			secondary, err = r.secondary.FindByIDs(gctx, secondaryIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load campaign influencer profiles: %w", err)
	}

	fromPrimary := make(map[string]*domain.InfluencerProfile, len(primary))
	for _, inf := range primary {
		fromPrimary[inf.ID] = inf.Profile()
	}
	fromSecondary := make(map[string]*domain.InfluencerProfile, len(secondary))
	for _, d := range secondary {
		fromSecondary[d.ID] = d.Profile()
	}
	for i := range top {
		if top[i].Source == domain.SourceDashboardInfluencers {
			top[i].Profile = fromSecondary[top[i].InfluencerID]
		} else {
			top[i].Profile = fromPrimary[top[i].InfluencerID]
		}
	}
	return nil
}
