package domain

// MatchScores is the score breakdown carried by every match-table row and
// copied into campaign snapshots.
type MatchScores struct {
	EngagementRateScaled   float64 `json:"engagement_rate_scaled"`
	Pagerank               float64 `json:"pagerank"`
	BotScore               float64 `json:"bot_score"`
	SponsoredPostsScaled   float64 `json:"sponsored_posts_scaled"`
	CategoryRelevanceScore float64 `json:"category_relevance_score"`
	SentimentScore         float64 `json:"sentiment_score"`
}

// BrandMatch is one precomputed (brand, influencer) row produced offline.
type BrandMatch struct {
	ID                    string      `json:"_id,omitempty"`
	BrandUsername         string      `json:"brand_username"`
	BrandName             string      `json:"brand_name,omitempty"`
	BrandBio              string      `json:"brand_bio,omitempty"`
	BrandCategory         string      `json:"brand_category,omitempty"`
	BrandEmail            string      `json:"brand_email,omitempty"`
	InfluencerUsername    string      `json:"influencer_username"`
	InfluencerCategory    string      `json:"influencer_category,omitempty"`
	Scores                MatchScores `json:"scores"`
	BrandMatchScoreScaled float64     `json:"brand_match_score_scaled"`
}

func (m *BrandMatch) Validate() error {
	switch {
	case m.BrandUsername == "":
		return NewValidationError("brand_username is required")
	case m.InfluencerUsername == "":
		return NewValidationError("influencer_username is required")
	}
	return nil
}

// MatchMode selects how a brand username is compared against the match table.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchCaseFold
	MatchSubstring
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchCaseFold:
		return "case_fold"
	case MatchSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

// MatchQuery is a store-agnostic lookup against the match table.
type MatchQuery struct {
	Username string
	Mode     MatchMode
}
