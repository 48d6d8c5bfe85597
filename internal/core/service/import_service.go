package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/core/ports"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

// ImportSources are the CSV exports produced by the scoring pipeline.
// Dashboard is optional.
type ImportSources struct {
	Influencers io.Reader
	Matches     io.Reader
	Dashboard   io.Reader
}

type ImportReport struct {
	Influencers  int
	Matches      int
	Dashboard    int
	UniqueBrands int
	Skipped      int
}

// Importer rebuilds the influencer, match and dashboard collections from CSV.
type Importer struct {
	influencers ports.InfluencerRepository
	dashboard   ports.DashboardInfluencerRepository
	matches     ports.BrandMatchRepository
	cache       ports.BrandCatalogCache
	logger      zerolog.Logger
}

// NewImporter builds an Importer. cache may be nil.
func NewImporter(
	influencers ports.InfluencerRepository,
	dashboard ports.DashboardInfluencerRepository,
	matches ports.BrandMatchRepository,
	cache ports.BrandCatalogCache,
	logger zerolog.Logger,
) *Importer {
	return &Importer{influencers: influencers, dashboard: dashboard, matches: matches, cache: cache, logger: logger}
}

// Import parses every source concurrently and, only if all of them parse,
// replaces each collection wholesale.
func (im *Importer) Import(ctx context.Context, src ImportSources) (*ImportReport, error) {
	if src.Influencers == nil || src.Matches == nil {
		return nil, domain.NewValidationError("influencer and brand match files are required")
	}

	var (
		influencers []*domain.Influencer
		matches     []*domain.BrandMatch
		dashboard   []*domain.DashboardInfluencer
		skipped     [3]int
	)

	g := new(errgroup.Group)
	g.Go(func() (err error) {
		influencers, skipped[0], err = ParseInfluencers(src.Influencers)
		return err
	})
	g.Go(func() (err error) {
		matches, skipped[1], err = ParseBrandMatches(src.Matches)
		return err
	})
	if src.Dashboard != nil {
		g.Go(func() (err error) {
			dashboard, skipped[2], err = ParseDashboardInfluencers(src.Dashboard)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ImportReport{Skipped: skipped[0] + skipped[1] + skipped[2]}
	var err error

	if report.Influencers, err = im.influencers.ReplaceAll(ctx, influencers); err != nil {
		return nil, fmt.Errorf("replace influencers: %w", err)
	}
	metrics.ImportedRowsTotal.WithLabelValues("influencers").Add(float64(report.Influencers))

	if report.Matches, err = im.matches.ReplaceAll(ctx, matches); err != nil {
		return nil, fmt.Errorf("replace brand matches: %w", err)
	}
	metrics.ImportedRowsTotal.WithLabelValues("brandmatches").Add(float64(report.Matches))

	if src.Dashboard != nil {
		if report.Dashboard, err = im.dashboard.ReplaceAll(ctx, dashboard); err != nil {
			return nil, fmt.Errorf("replace dashboard influencers: %w", err)
		}
		metrics.ImportedRowsTotal.WithLabelValues("dashboardinfluencers").Add(float64(report.Dashboard))
	}

	brands := make(map[string]struct{})
	for _, m := range matches {
		brands[m.BrandUsername] = struct{}{}
	}
	report.UniqueBrands = len(brands)

	if im.cache != nil {
		if err := im.cache.Invalidate(ctx); err != nil {
			im.logger.Warn().Err(err).Msg("failed to invalidate brand catalog cache")
		}
	}

	im.logger.Info().
		Int("influencers", report.Influencers).
		Int("matches", report.Matches).
		Int("dashboard", report.Dashboard).
		Int("unique_brands", report.UniqueBrands).
		Int("skipped", report.Skipped).
		Msg("import complete")
	return report, nil
}

// ParseInfluencers reads the primary influencer export. Rows without a
// username and repeated usernames are skipped and counted.
func ParseInfluencers(r io.Reader) ([]*domain.Influencer, int, error) {
	now := time.Now().UTC()
	var out []*domain.Influencer
	seen := make(map[string]struct{})
	skipped, err := readRows(r, func(row csvRow) bool {
		inf := &domain.Influencer{
			Username:             row.str("username"),
			InfluencerStats:      row.stats(),
			NumPosts:             row.integer("num_posts"),
			Likes:                row.integer("likes"),
			EngagementLog:        row.number("engagement_log"),
			EngagementRateScaled: row.number("engagement_rate_scaled"),
			SentimentScore:       row.number("sentiment_score"),
			DominantSentiment:    row.str("dominant_sentiment"),
			CreatedAt:            now,
		}
		if _, dup := seen[inf.Username]; dup || inf.Validate() != nil {
			return false
		}
		seen[inf.Username] = struct{}{}
		out = append(out, inf)
		return true
	})
	if err != nil {
		return nil, 0, fmt.Errorf("parse influencers: %w", err)
	}
	return out, skipped, nil
}

// ParseBrandMatches reads the match table export. The brand name column is
// accepted as either "brand name" or "brand_name".
func ParseBrandMatches(r io.Reader) ([]*domain.BrandMatch, int, error) {
	var out []*domain.BrandMatch
	skipped, err := readRows(r, func(row csvRow) bool {
		m := &domain.BrandMatch{
			BrandUsername:      row.str("brand_username"),
			BrandName:          row.str("brand name", "brand_name"),
			BrandCategory:      row.str("brand_category"),
			BrandBio:           row.str("brand_bio"),
			BrandEmail:         row.str("email", "brand_email"),
			InfluencerUsername: row.str("influencer_username"),
			InfluencerCategory: row.str("influencer_category"),
			Scores: domain.MatchScores{
				EngagementRateScaled:   row.number("engagement_rate_scaled"),
				Pagerank:               row.number("pagerank"),
				BotScore:               row.number("bot_score"),
				SponsoredPostsScaled:   row.number("sponsored_posts_scaled"),
				CategoryRelevanceScore: row.number("category_relevance_score"),
				SentimentScore:         row.number("sentiment_score"),
			},
			BrandMatchScoreScaled: row.number("brand_match_score_scaled"),
		}
		if m.Validate() != nil {
			return false
		}
		out = append(out, m)
		return true
	})
	if err != nil {
		return nil, 0, fmt.Errorf("parse brand matches: %w", err)
	}
	return out, skipped, nil
}

func ParseDashboardInfluencers(r io.Reader) ([]*domain.DashboardInfluencer, int, error) {
	now := time.Now().UTC()
	var out []*domain.DashboardInfluencer
	seen := make(map[string]struct{})
	skipped, err := readRows(r, func(row csvRow) bool {
		d := &domain.DashboardInfluencer{
			Username:        row.str("username"),
			InfluencerStats: row.stats(),
			TotalPosts:      row.integer("total_posts"),
			TotalLikes:      row.integer("total_likes"),
			CreatedAt:       now,
		}
		if _, dup := seen[d.Username]; dup || d.Validate() != nil {
			return false
		}
		seen[d.Username] = struct{}{}
		out = append(out, d)
		return true
	})
	if err != nil {
		return nil, 0, fmt.Errorf("parse dashboard influencers: %w", err)
	}
	return out, skipped, nil
}

// csvRow gives by-name access to one record using the header row.
type csvRow struct {
	index  map[string]int
	record []string
}

// str returns the first non-empty value among the named columns.
func (r csvRow) str(names ...string) string {
	for _, n := range names {
		i, ok := r.index[n]
		if !ok || i >= len(r.record) {
			continue
		}
		if v := strings.TrimSpace(r.record[i]); v != "" {
			return v
		}
	}
	return ""
}

// integer parses a whole number. Decimal input is truncated; anything
// unparseable is 0.
func (r csvRow) integer(name string) int64 {
	v := r.str(name)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int64(f)
	}
	return 0
}

func (r csvRow) number(name string) float64 {
	f, err := strconv.ParseFloat(r.str(name), 64)
	if err != nil {
		return 0
	}
	return f
}

func (r csvRow) stats() domain.InfluencerStats {
	return domain.InfluencerStats{
		Name:               r.str("name"),
		Followers:          r.integer("followers"),
		Followees:          r.integer("followees"),
		Posts:              r.integer("posts"),
		Category:           r.str("category"),
		Email:              r.str("email"),
		Bio:                r.str("bio"),
		Comments:           r.integer("comments"),
		EngagementRate:     r.number("engagement_rate"),
		BotScore:           r.number("bot_score"),
		Authenticity:       r.number("authenticity"),
		Pagerank:           r.number("pagerank"),
		PositivePercentage: r.number("positive_percentage"),
		NeutralPercentage:  r.number("neutral_percentage"),
		NegativePercentage: r.number("negative_percentage"),
	}
}

// readRows feeds each record after the header to fn and returns how many
// records fn rejected.
func readRows(r io.Reader, fn func(csvRow) bool) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("empty file")
		}
		return 0, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	skipped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return skipped, nil
		}
		if err != nil {
			return skipped, err
		}
		if !fn(csvRow{index: index, record: rec}) {
			skipped++
		}
	}
}
