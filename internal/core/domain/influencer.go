package domain

import "time"

// ProfileSource names the profile store an influencer was resolved from.
type ProfileSource string

const (
	SourceInfluencers          ProfileSource = "influencers"
	SourceDashboardInfluencers ProfileSource = "dashboard_influencers"
)

// InfluencerStats holds the externally computed metrics shared by both
// influencer profile stores. Values are opaque inputs and are not range-checked.
type InfluencerStats struct {
	Name               string  `json:"name,omitempty"`
	Followers          int64   `json:"followers"`
	Followees          int64   `json:"followees"`
	Posts              int64   `json:"posts"`
	Category           string  `json:"category,omitempty"`
	Email              string  `json:"email,omitempty"`
	Bio                string  `json:"bio,omitempty"`
	Comments           int64   `json:"comments"`
	EngagementRate     float64 `json:"engagement_rate"`
	BotScore           float64 `json:"bot_score"`
	Authenticity       float64 `json:"authenticity"`
	Pagerank           float64 `json:"pagerank"`
	PositivePercentage float64 `json:"positive_percentage"`
	NeutralPercentage  float64 `json:"neutral_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
}

// Influencer is a profile in the primary store. UserID is empty until an
// influencer account claims the imported profile.
type Influencer struct {
	ID       string `json:"_id"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username"`
	InfluencerStats
	NumPosts             int64     `json:"num_posts"`
	Likes                int64     `json:"likes"`
	EngagementLog        float64   `json:"engagement_log"`
	EngagementRateScaled float64   `json:"engagement_rate_scaled"`
	SentimentScore       float64   `json:"sentiment_score"`
	DominantSentiment    string    `json:"dominant_sentiment,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (i *Influencer) Validate() error {
	if i.Username == "" {
		return NewValidationError("influencer username is required")
	}
	return nil
}

func (i *Influencer) Ref() ProfileRef {
	return ProfileRef{
		ID:        i.ID,
		Username:  i.Username,
		Name:      i.Name,
		Category:  i.Category,
		Followers: i.Followers,
		Source:    SourceInfluencers,
	}
}

func (i *Influencer) Profile() *InfluencerProfile {
	return &InfluencerProfile{ID: i.ID, Username: i.Username, InfluencerStats: i.InfluencerStats}
}

// DashboardInfluencer is a profile in the secondary, dashboard-only store.
type DashboardInfluencer struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	InfluencerStats
	TotalPosts int64     `json:"total_posts"`
	TotalLikes int64     `json:"total_likes"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (d *DashboardInfluencer) Validate() error {
	if d.Username == "" {
		return NewValidationError("dashboard influencer username is required")
	}
	return nil
}

func (d *DashboardInfluencer) Ref() ProfileRef {
	return ProfileRef{
		ID:        d.ID,
		Username:  d.Username,
		Name:      d.Name,
		Category:  d.Category,
		Followers: d.Followers,
		Source:    SourceDashboardInfluencers,
	}
}

func (d *DashboardInfluencer) Profile() *InfluencerProfile {
	return &InfluencerProfile{ID: d.ID, Username: d.Username, InfluencerStats: d.InfluencerStats}
}

// ProfileRef is the store-independent view of a resolved influencer profile.
type ProfileRef struct {
	ID        string
	Username  string
	Name      string
	Category  string
	Followers int64
	Source    ProfileSource
}

// InfluencerProfile is the current state of a profile attached to campaign
// responses. It is read at response time and never stored on the campaign.
type InfluencerProfile struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	InfluencerStats
}
