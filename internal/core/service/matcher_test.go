package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandscape/brandscape-api/internal/core/domain"
	"github.com/brandscape/brandscape-api/internal/pkg/metrics"
)

func newTestResolver(m *stubMatches, p *stubInfluencers, d *stubDashboard) *Resolver {
	return NewResolver(m, p, d, nil, zerolog.Nop())
}

func TestResolver_ExactTierWins(t *testing.T) {
	m := newStubMatches(
		matchRow("Nike", "ana", 0.9),
		matchRow("nike", "bob", 0.8),
	)
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, rows, err := r.FindMatches(context.Background(), "Nike")
	require.NoError(t, err)
	assert.Equal(t, "exact", tier)
	require.Len(t, rows, 1)
	assert.Equal(t, "ana", rows[0].InfluencerUsername)
}

func TestResolver_CaseFoldTier(t *testing.T) {
	m := newStubMatches(matchRow("Nike", "ana", 0.9))
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, rows, err := r.FindMatches(context.Background(), "NIKE")
	require.NoError(t, err)
	assert.Equal(t, "case_fold", tier)
	assert.Len(t, rows, 1)
	assert.Equal(t, []domain.MatchQuery{
		{Username: "NIKE", Mode: domain.MatchExact},
		{Username: "NIKE", Mode: domain.MatchCaseFold},
	}, m.queries)
}

func TestResolver_TrimmedTierOnlyWhenInputHasSpaces(t *testing.T) {
	m := newStubMatches(matchRow("Nike", "ana", 0.9))
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, _, err := r.FindMatches(context.Background(), "  nike ")
	require.NoError(t, err)
	assert.Equal(t, "trimmed_case_fold", tier)
}

func TestResolver_SubstringTier(t *testing.T) {
	m := newStubMatches(matchRow("nike_official", "ana", 0.9))
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, rows, err := r.FindMatches(context.Background(), "Nike")
	require.NoError(t, err)
	assert.Equal(t, "substring", tier)
	assert.Equal(t, "nike_official", rows[0].BrandUsername)
	// untrimmed input skips the trimmed tier
	assert.Len(t, m.queries, 3)
}

func TestResolver_NoMatchesCarriesSample(t *testing.T) {
	m := newStubMatches(matchRow("adidas", "ana", 0.9), matchRow("puma", "bob", 0.5))
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, rows, err := r.FindMatches(context.Background(), "reebok")
	assert.Equal(t, tierNone, tier)
	assert.Nil(t, rows)

	var nm *domain.NoMatchesError
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "reebok", nm.Username)
	assert.Equal(t, []string{"adidas", "puma"}, nm.AvailableBrands)
	assert.ErrorIs(t, err, domain.ErrNoBrandMatches)
}

func TestResolver_StoreErrorIsNotNotFound(t *testing.T) {
	m := newStubMatches()
	m.findErr = errors.New("connection reset")
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	tier, _, err := r.FindMatches(context.Background(), "nike")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoBrandMatches)
	assert.Equal(t, "error", tier)
}

func TestResolver_StoreErrorIsCountedUnderErrorTier(t *testing.T) {
	m := newStubMatches()
	m.findErr = errors.New("connection reset")
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	before := testutil.ToFloat64(metrics.MatchResolutionTotal.WithLabelValues("error"))
	blank := testutil.ToFloat64(metrics.MatchResolutionTotal.WithLabelValues(""))

	_, err := r.Resolve(context.Background(), "nike")
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MatchResolutionTotal.WithLabelValues("error")))
	assert.Equal(t, blank, testutil.ToFloat64(metrics.MatchResolutionTotal.WithLabelValues("")))
}

func TestResolver_Resolve_SecondaryFallbackPerRow(t *testing.T) {
	m := newStubMatches(
		matchRow("nike", "ana", 0.9),
		matchRow("nike", "bob", 0.8),
		matchRow("nike", "cat", 0.7),
	)
	p := newStubInfluencers(primaryProfile("p-ana", "ana", 1000))
	d := newStubDashboard(
		dashboardProfile("d-bob", "bob", 500),
		// primary wins when both stores hold the username
		dashboardProfile("d-ana", "ana", 1),
	)
	r := newTestResolver(m, p, d)

	res, err := r.Resolve(context.Background(), "nike")
	require.NoError(t, err)

	assert.Equal(t, "exact", res.Tier)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 1, res.FromSecondary)
	require.Len(t, res.TopInfluencers, 2)

	first, second := res.TopInfluencers[0], res.TopInfluencers[1]
	assert.Equal(t, "p-ana", first.InfluencerID)
	assert.Equal(t, domain.SourceInfluencers, first.Source)
	assert.Equal(t, 0.9, first.BrandMatchScore)
	assert.Equal(t, 0.45, first.MatchData.Pagerank)
	assert.Equal(t, "d-bob", second.InfluencerID)
	assert.Equal(t, domain.SourceDashboardInfluencers, second.Source)
	assert.Equal(t, int64(500), second.Followers)
}

func TestResolver_Resolve_NoProfiles(t *testing.T) {
	m := newStubMatches(matchRow("nike", "ghost", 0.9))
	r := newTestResolver(m, newStubInfluencers(), newStubDashboard())

	_, err := r.Resolve(context.Background(), "nike")
	assert.ErrorIs(t, err, domain.ErrNoInfluencerProfiles)
}

func TestResolver_Resolve_CapsAtTen(t *testing.T) {
	var rows []*domain.BrandMatch
	var profiles []*domain.Influencer
	for i := range 15 {
		name := string(rune('a'+i)) + "_inf"
		rows = append(rows, matchRow("nike", name, float64(i)))
		profiles = append(profiles, primaryProfile("id-"+name, name, int64(i)))
	}
	r := newTestResolver(newStubMatches(rows...), newStubInfluencers(profiles...), newStubDashboard())

	res, err := r.Resolve(context.Background(), "nike")
	require.NoError(t, err)
	require.Len(t, res.TopInfluencers, 10)
	assert.Equal(t, 14.0, res.TopInfluencers[0].BrandMatchScore)
	assert.Equal(t, 5.0, res.TopInfluencers[9].BrandMatchScore)
}
