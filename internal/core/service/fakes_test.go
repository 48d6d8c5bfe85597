package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	seq   int
	calls int
}

func newStubUsers() *stubUsers { return &stubUsers{byID: make(map[string]*domain.User)} }

func (r *stubUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := *u
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type stubBrands struct {
	mu        sync.Mutex
	byID      map[string]*domain.Brand
	seq       int
	createErr error
}

func newStubBrands(brands ...*domain.Brand) *stubBrands {
	r := &stubBrands{byID: make(map[string]*domain.Brand)}
	for _, b := range brands {
		r.byID[b.ID] = b
	}
	return r
}

func (r *stubBrands) Create(_ context.Context, b *domain.Brand) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Username == b.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	clone := *b
	clone.ID = fmt.Sprintf("brand-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubBrands) FindByID(_ context.Context, id string) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, domain.ErrBrandNotFound
}

func (r *stubBrands) FindByUserID(_ context.Context, userID string) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.UserID == userID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBrandNotFound
}

func (r *stubBrands) FindByUsername(_ context.Context, username string) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.Username == username {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBrandNotFound
}

func (r *stubBrands) UpdateProfile(_ context.Context, id string, u domain.BrandProfileUpdate) (*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBrandNotFound
	}
	if u.Name != "" {
		b.Name = u.Name
	}
	if u.Bio != "" {
		b.Bio = u.Bio
	}
	if u.Category != "" {
		b.Category = u.Category
	}
	clone := *b
	return &clone, nil
}

func (r *stubBrands) UpdateUsername(_ context.Context, id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.ErrBrandNotFound
	}
	b.Username = username
	return nil
}

func (r *stubBrands) List(_ context.Context, limit int64) ([]*domain.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Brand, 0, len(r.byID))
	for _, b := range r.byID {
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubBrands) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubInfluencers struct {
	mu       sync.Mutex
	items    []*domain.Influencer
	seq      int
	replaced int
}

func newStubInfluencers(items ...*domain.Influencer) *stubInfluencers {
	return &stubInfluencers{items: items}
}

func (r *stubInfluencers) find(match func(*domain.Influencer) bool) (*domain.Influencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inf := range r.items {
		if match(inf) {
			clone := *inf
			return &clone, nil
		}
	}
	return nil, domain.ErrInfluencerNotFound
}

func (r *stubInfluencers) Create(_ context.Context, inf *domain.Influencer) (*domain.Influencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *inf
	clone.ID = fmt.Sprintf("inf-new-%d", r.seq)
	r.items = append(r.items, &clone)
	out := clone
	return &out, nil
}

func (r *stubInfluencers) FindByID(_ context.Context, id string) (*domain.Influencer, error) {
	return r.find(func(i *domain.Influencer) bool { return i.ID == id })
}

func (r *stubInfluencers) FindByUserID(_ context.Context, userID string) (*domain.Influencer, error) {
	return r.find(func(i *domain.Influencer) bool { return i.UserID == userID })
}

func (r *stubInfluencers) FindByUsername(_ context.Context, username string) (*domain.Influencer, error) {
	return r.find(func(i *domain.Influencer) bool { return i.Username == username })
}

func (r *stubInfluencers) FindByUsernames(_ context.Context, usernames []string) ([]*domain.Influencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		want[u] = true
	}
	var out []*domain.Influencer
	for _, inf := range r.items {
		if want[inf.Username] {
			clone := *inf
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubInfluencers) FindByIDs(_ context.Context, ids []string) ([]*domain.Influencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Influencer
	for _, inf := range r.items {
		if slices.Contains(ids, inf.ID) {
			clone := *inf
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubInfluencers) ClaimOwner(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inf := range r.items {
		if inf.ID == id {
			if inf.UserID != "" {
				return domain.ErrUsernameTaken
			}
			inf.UserID = userID
			return nil
		}
	}
	return domain.ErrInfluencerNotFound
}

func (r *stubInfluencers) Top(context.Context, int64) ([]*domain.Influencer, error) {
	return nil, nil
}

func (r *stubInfluencers) SearchByCategory(context.Context, string, int64) ([]*domain.Influencer, error) {
	return nil, nil
}

func (r *stubInfluencers) ReplaceAll(_ context.Context, items []*domain.Influencer) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
	r.replaced++
	return len(items), nil
}

func (r *stubInfluencers) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

type stubDashboard struct {
	mu        sync.Mutex
	items     []*domain.DashboardInfluencer
	lastPage  int64
	lastLimit int64
	replaced  int
}

func newStubDashboard(items ...*domain.DashboardInfluencer) *stubDashboard {
	return &stubDashboard{items: items}
}

func (r *stubDashboard) FindByUsername(_ context.Context, username string) (*domain.DashboardInfluencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.Username == username {
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrInfluencerNotFound
}

func (r *stubDashboard) FindByUsernames(_ context.Context, usernames []string) ([]*domain.DashboardInfluencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(usernames))
	for _, u := range usernames {
		want[u] = true
	}
	var out []*domain.DashboardInfluencer
	for _, d := range r.items {
		if want[d.Username] {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubDashboard) FindByIDs(_ context.Context, ids []string) ([]*domain.DashboardInfluencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DashboardInfluencer
	for _, d := range r.items {
		if slices.Contains(ids, d.ID) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

// List pages over items in their stored order; callers seed them pre-sorted.
func (r *stubDashboard) List(_ context.Context, page, limit int64) ([]*domain.DashboardInfluencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPage, r.lastLimit = page, limit
	start := (page - 1) * limit
	if start >= int64(len(r.items)) {
		return nil, nil
	}
	end := min(start+limit, int64(len(r.items)))
	return r.items[start:end], nil
}

func (r *stubDashboard) Search(_ context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*domain.DashboardInfluencer
	for _, d := range r.items {
		if strings.Contains(strings.ToLower(d.Username), q) || strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubDashboard) ReplaceAll(_ context.Context, items []*domain.DashboardInfluencer) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
	r.replaced++
	return len(items), nil
}

func (r *stubDashboard) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// stubMatches evaluates MatchQuery the way the Mongo filter does.
type stubMatches struct {
	mu       sync.Mutex
	rows     []*domain.BrandMatch
	queries  []domain.MatchQuery
	findErr  error
	replaced int
}

func newStubMatches(rows ...*domain.BrandMatch) *stubMatches {
	return &stubMatches{rows: rows}
}

func matchesQuery(m *domain.BrandMatch, q domain.MatchQuery) bool {
	switch q.Mode {
	case domain.MatchExact:
		return m.BrandUsername == q.Username
	case domain.MatchCaseFold:
		return strings.EqualFold(m.BrandUsername, q.Username)
	case domain.MatchSubstring:
		return strings.Contains(strings.ToLower(m.BrandUsername), strings.ToLower(q.Username))
	}
	return false
}

func (r *stubMatches) filter(q domain.MatchQuery) []*domain.BrandMatch {
	var out []*domain.BrandMatch
	for _, m := range r.rows {
		if matchesQuery(m, q) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BrandMatchScoreScaled > out[j].BrandMatchScoreScaled })
	return out
}

func (r *stubMatches) FindTop(_ context.Context, q domain.MatchQuery, limit int64) ([]*domain.BrandMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := r.filter(q)
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMatches) FindFirst(_ context.Context, q domain.MatchQuery) (*domain.BrandMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if out := r.filter(q); len(out) > 0 {
		return out[0], nil
	}
	return nil, domain.ErrNoBrandMatches
}

func (r *stubMatches) CountMatching(_ context.Context, q domain.MatchQuery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filter(q))), nil
}

func (r *stubMatches) DistinctBrandUsernames(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, m := range r.rows {
		if !seen[m.BrandUsername] {
			seen[m.BrandUsername] = true
			out = append(out, m.BrandUsername)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMatches) AvailableBrands(context.Context) ([]domain.BrandSummary, error) {
	names, _ := r.DistinctBrandUsernames(context.Background(), 0)
	out := make([]domain.BrandSummary, 0, len(names))
	for _, n := range names {
		out = append(out, domain.BrandSummary{Username: n})
	}
	return out, nil
}

func (r *stubMatches) ReplaceAll(_ context.Context, items []*domain.BrandMatch) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = items
	r.replaced++
	return len(items), nil
}

func (r *stubMatches) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type stubCampaigns struct {
	mu          sync.Mutex
	byID        map[string]*domain.Campaign
	seq         int
	finalizeErr error
}

func newStubCampaigns() *stubCampaigns {
	return &stubCampaigns{byID: make(map[string]*domain.Campaign)}
}

func (r *stubCampaigns) put(c *domain.Campaign) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
}

func (r *stubCampaigns) Create(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("camp-%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCampaigns) FindByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byID[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCampaignNotFound
}

func (r *stubCampaigns) ListByBrand(_ context.Context, brandID string) ([]*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Campaign
	for _, c := range r.byID {
		if c.BrandID == brandID && c.Status != domain.CampaignPending {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCampaigns) Finalize(_ context.Context, id string, top []domain.TopInfluencer) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalizeErr != nil {
		return nil, r.finalizeErr
	}
	c, ok := r.byID[id]
	if !ok || c.Status != domain.CampaignPending {
		return nil, domain.ErrCampaignNotFound
	}
	c.TopInfluencers = top
	c.Status = domain.CampaignActive
	clone := *c
	return &clone, nil
}

func (r *stubCampaigns) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCampaignNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCampaigns) FindPending(_ context.Context, olderThan time.Time, limit int64) ([]*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Campaign
	for _, c := range r.byID {
		if c.Status == domain.CampaignPending && c.CreatedAt.Before(olderThan) {
			clone := *c
			out = append(out, &clone)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubCampaigns) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// stubIdempotency holds an empty value for keys reserved by a running request.
type stubIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func newStubIdempotency() *stubIdempotency { return &stubIdempotency{keys: make(map[string]string)} }

func (s *stubIdempotency) Reserve(_ context.Context, brandID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, held := s.keys[brandID+"|"+key]; held {
		return id, false, nil
	}
	s.keys[brandID+"|"+key] = ""
	return "", true, nil
}

func (s *stubIdempotency) Remember(_ context.Context, brandID, key, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[brandID+"|"+key] = campaignID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, brandID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, brandID+"|"+key)
	return nil
}

func (s *stubIdempotency) held(brandID, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[brandID+"|"+key]
	return ok
}

type stubCatalogCache struct {
	mu          sync.Mutex
	brands      []domain.BrandSummary
	found       bool
	sets        int
	invalidated int
}

func (c *stubCatalogCache) Get(context.Context) ([]domain.BrandSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brands, c.found, nil
}

func (c *stubCatalogCache) Set(_ context.Context, brands []domain.BrandSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brands, c.found = brands, true
	c.sets++
	return nil
}

func (c *stubCatalogCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brands, c.found = nil, false
	c.invalidated++
	return nil
}

// matchRow builds a match-table row with only the fields the resolver reads.
func matchRow(brand, influencer string, score float64) *domain.BrandMatch {
	return &domain.BrandMatch{
		BrandUsername:         brand,
		InfluencerUsername:    influencer,
		BrandMatchScoreScaled: score,
		Scores:                domain.MatchScores{Pagerank: score / 2},
	}
}

func primaryProfile(id, username string, followers int64) *domain.Influencer {
	return &domain.Influencer{
		ID:              id,
		Username:        username,
		InfluencerStats: domain.InfluencerStats{Name: strings.ToUpper(username), Followers: followers},
	}
}

func dashboardProfile(id, username string, followers int64) *domain.DashboardInfluencer {
	return &domain.DashboardInfluencer{
		ID:              id,
		Username:        username,
		InfluencerStats: domain.InfluencerStats{Name: strings.ToUpper(username), Followers: followers},
	}
}
