package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
)

const (
	checkTopLimit     = 5
	suggestionLimit   = 5
	diagnoseBrandsMax = 5
)

// Diagnostics inspects how registered brands line up with the imported match
// table and repairs username casing drift.
type Diagnostics struct {
	brands      ports.BrandRepository
	matches     ports.BrandMatchRepository
	influencers ports.InfluencerRepository
	dashboard   ports.DashboardInfluencerRepository
	resolver    *Resolver
	logger      zerolog.Logger
}

func NewDiagnostics(
	brands ports.BrandRepository,
	matches ports.BrandMatchRepository,
	influencers ports.InfluencerRepository,
	dashboard ports.DashboardInfluencerRepository,
	resolver *Resolver,
	logger zerolog.Logger,
) *Diagnostics {
	return &Diagnostics{
		brands:      brands,
		matches:     matches,
		influencers: influencers,
		dashboard:   dashboard,
		resolver:    resolver,
		logger:      logger,
	}
}

type BrandCheck struct {
	Username   string
	Exact      *domain.BrandMatch
	CaseFold   *domain.BrandMatch
	MatchCount int64
	Top        []*domain.BrandMatch
}

// CheckBrand reports whether username is present in the match table exactly
// or only after case folding, with its best scoring rows.
func (d *Diagnostics) CheckBrand(ctx context.Context, username string) (*BrandCheck, error) {
	if username == "" {
		return nil, domain.NewValidationError("brand username is required")
	}
	out := &BrandCheck{Username: username}

	var err error
	if out.Exact, err = d.firstOrNil(ctx, domain.MatchQuery{Username: username, Mode: domain.MatchExact}); err != nil {
		return nil, err
	}
	fold := domain.MatchQuery{Username: username, Mode: domain.MatchCaseFold}
	if out.CaseFold, err = d.firstOrNil(ctx, fold); err != nil {
		return nil, err
	}
	if out.MatchCount, err = d.matches.CountMatching(ctx, fold); err != nil {
		return nil, err
	}
	if out.MatchCount > 0 {
		if out.Top, err = d.matches.FindTop(ctx, fold, checkTopLimit); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type InfluencerCheck struct {
	Match     *domain.BrandMatch
	Primary   *domain.Influencer
	Dashboard *domain.DashboardInfluencer
}

type InfluencerCheckReport struct {
	Brand           string
	Checks          []InfluencerCheck
	InPrimary       int
	InDashboardOnly int
	Missing         int
}

// CheckInfluencers looks up every matched influencer of brand in both
// profile stores.
func (d *Diagnostics) CheckInfluencers(ctx context.Context, brand string) (*InfluencerCheckReport, error) {
	rows, err := d.matches.FindTop(ctx, domain.MatchQuery{Username: brand, Mode: domain.MatchExact}, defaultMatchLimit)
	if err != nil {
		return nil, err
	}

	report := &InfluencerCheckReport{Brand: brand}
	for _, m := range rows {
		check := InfluencerCheck{Match: m}

		inf, err := d.influencers.FindByUsername(ctx, m.InfluencerUsername)
		switch {
		case err == nil:
			check.Primary = inf
		case !errors.Is(err, domain.ErrInfluencerNotFound):
			return nil, err
		}

		dash, err := d.dashboard.FindByUsername(ctx, m.InfluencerUsername)
		switch {
		case err == nil:
			check.Dashboard = dash
		case !errors.Is(err, domain.ErrInfluencerNotFound):
			return nil, err
		}

		switch {
		case check.Primary != nil:
			report.InPrimary++
		case check.Dashboard != nil:
			report.InDashboardOnly++
		default:
			report.Missing++
		}
		report.Checks = append(report.Checks, check)
	}
	return report, nil
}

type BrandTier struct {
	BrandID   string
	Username  string
	Tier      string
	Canonical string
	Matches   int
}

type DiagnoseReport struct {
	Brands       int64
	Matches      int64
	Influencers  int64
	Dashboard    int64
	SampleBrands []string
	Registered   []BrandTier
	// SampleInfluencer is one matched influencer checked in both stores.
	SampleInfluencer *InfluencerCheck
}

// Diagnose summarizes collection sizes and the resolution tier of a few
// registered brands.
func (d *Diagnostics) Diagnose(ctx context.Context) (*DiagnoseReport, error) {
	report := &DiagnoseReport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { report.Brands, err = d.brands.Count(gctx); return })
	g.Go(func() (err error) { report.Matches, err = d.matches.Count(gctx); return })
	g.Go(func() (err error) { report.Influencers, err = d.influencers.Count(gctx); return })
	g.Go(func() (err error) { report.Dashboard, err = d.dashboard.Count(gctx); return })
	g.Go(func() (err error) {
		report.SampleBrands, err = d.matches.DistinctBrandUsernames(gctx, sampleBrandsLimit)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	brands, err := d.brands.List(ctx, diagnoseBrandsMax)
	if err != nil {
		return nil, err
	}
	for _, b := range brands {
		bt := BrandTier{BrandID: b.ID, Username: b.Username, Tier: tierNone}
		tier, rows, err := d.resolver.FindMatches(ctx, b.Username)
		if err != nil && !errors.Is(err, domain.ErrNoBrandMatches) {
			return nil, err
		}
		if len(rows) > 0 {
			bt.Tier = tier
			bt.Canonical = rows[0].BrandUsername
			bt.Matches = len(rows)
		}
		report.Registered = append(report.Registered, bt)
	}

	if len(report.SampleBrands) > 0 {
		ic, err := d.CheckInfluencers(ctx, report.SampleBrands[0])
		if err != nil {
			return nil, err
		}
		if len(ic.Checks) > 0 {
			report.SampleInfluencer = &ic.Checks[0]
		}
	}
	return report, nil
}

type BrandFix struct {
	BrandID     string
	From        string
	To          string
	Suggestions []string
}

type FixReport struct {
	AlreadyCorrect int
	Fixed          []BrandFix
	Unmatched      []BrandFix
}

// FixBrands rewrites registered brand usernames to the casing used by the
// match table. With dryRun set nothing is written.
func (d *Diagnostics) FixBrands(ctx context.Context, dryRun bool) (*FixReport, error) {
	brands, err := d.brands.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	report := &FixReport{}
	for _, b := range brands {
		exact, err := d.firstOrNil(ctx, domain.MatchQuery{Username: b.Username, Mode: domain.MatchExact})
		if err != nil {
			return nil, err
		}
		if exact != nil {
			report.AlreadyCorrect++
			continue
		}

		fold, err := d.firstOrNil(ctx, domain.MatchQuery{Username: b.Username, Mode: domain.MatchCaseFold})
		if err != nil {
			return nil, err
		}
		if fold != nil {
			if !dryRun {
				if err := d.brands.UpdateUsername(ctx, b.ID, fold.BrandUsername); err != nil {
					return nil, err
				}
				d.logger.Info().Str("brand_id", b.ID).Str("from", b.Username).Str("to", fold.BrandUsername).Msg("brand username fixed")
			}
			report.Fixed = append(report.Fixed, BrandFix{BrandID: b.ID, From: b.Username, To: fold.BrandUsername})
			continue
		}

		suggestions, err := d.suggest(ctx, b.Username)
		if err != nil {
			return nil, err
		}
		report.Unmatched = append(report.Unmatched, BrandFix{BrandID: b.ID, From: b.Username, Suggestions: suggestions})
	}
	return report, nil
}

// suggest returns brand usernames containing the first three characters of username.
func (d *Diagnostics) suggest(ctx context.Context, username string) ([]string, error) {
	prefix := []rune(username)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if len(prefix) == 0 {
		return nil, nil
	}
	rows, err := d.matches.FindTop(ctx, domain.MatchQuery{Username: string(prefix), Mode: domain.MatchSubstring}, suggestionLimit*defaultMatchLimit)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.BrandUsername]; ok {
			continue
		}
		seen[r.BrandUsername] = struct{}{}
		out = append(out, r.BrandUsername)
		if len(out) == suggestionLimit {
			break
		}
	}
	return out, nil
}

func (d *Diagnostics) firstOrNil(ctx context.Context, q domain.MatchQuery) (*domain.BrandMatch, error) {
	m, err := d.matches.FindFirst(ctx, q)
	if errors.Is(err, domain.ErrNoBrandMatches) {
		return nil, nil
	}
	return m, err
}
