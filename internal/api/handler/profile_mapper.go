package handler

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// influencerResponse is the public view of a primary-store profile. The
// owning user id is never exposed.
type influencerResponse struct {
	ID                   string    `json:"_id"`
	Username             string    `json:"username"`
	Name                 string    `json:"name,omitempty"`
	Followers            int64     `json:"followers"`
	Followees            int64     `json:"followees"`
	Posts                int64     `json:"posts"`
	Category             string    `json:"category,omitempty"`
	Email                string    `json:"email,omitempty"`
	Bio                  string    `json:"bio,omitempty"`
	NumPosts             int64     `json:"num_posts"`
	Likes                int64     `json:"likes"`
	Comments             int64     `json:"comments"`
	EngagementRate       float64   `json:"engagement_rate"`
	EngagementLog        float64   `json:"engagement_log"`
	EngagementRateScaled float64   `json:"engagement_rate_scaled"`
	BotScore             float64   `json:"bot_score"`
	Authenticity         float64   `json:"authenticity"`
	Pagerank             float64   `json:"pagerank"`
	PositivePercentage   float64   `json:"positive_percentage"`
	NeutralPercentage    float64   `json:"neutral_percentage"`
	NegativePercentage   float64   `json:"negative_percentage"`
	SentimentScore       float64   `json:"sentiment_score"`
	DominantSentiment    string    `json:"dominant_sentiment,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type brandResponse struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	Category  string    `json:"category,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toInfluencerResponse(inf *domain.Influencer) (influencerResponse, error) {
	var out influencerResponse
	err := copier.Copy(&out, inf)
	return out, err
}

func toInfluencerResponses(items []*domain.Influencer) ([]influencerResponse, error) {
	out := make([]influencerResponse, 0, len(items))
	for _, inf := range items {
		r, err := toInfluencerResponse(inf)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func toBrandResponse(b *domain.Brand) (brandResponse, error) {
	var out brandResponse
	err := copier.Copy(&out, b)
	return out, err
}
