package domain

import "time"

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	// CampaignPending marks a campaign inserted but not yet finalized with
	// its match snapshot. The recovery sweeper resumes campaigns left here.
	CampaignPending   CampaignStatus = "pending"
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
)

// TargetAudience describes who a campaign is aimed at.
type TargetAudience struct {
	AgeGroups []string `json:"ageGroups"`
	Locations []string `json:"locations"`
	Gender    string   `json:"gender,omitempty"`
}

// TopInfluencer is one entry of the match snapshot embedded in a campaign.
type TopInfluencer struct {
	InfluencerID       string        `json:"influencerId"`
	InfluencerUsername string        `json:"influencerUsername"`
	InfluencerName     string        `json:"influencerName,omitempty"`
	Category           string        `json:"category,omitempty"`
	Followers          int64         `json:"followers"`
	Source             ProfileSource `json:"source"`
	BrandMatchScore    float64       `json:"brandMatchScore"`
	MatchData          MatchScores   `json:"matchData"`
	// Profile is read from the store named by Source when the campaign is
	// returned to its owner.
	Profile *InfluencerProfile `json:"profile,omitempty"`
}

// Campaign is owned by a brand; TopInfluencers is a creation-time snapshot and
// is never recomputed.
type Campaign struct {
	ID             string          `json:"_id"`
	BrandID        string          `json:"brandId"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
	Budget         float64         `json:"budget"`
	TargetAudience TargetAudience  `json:"targetAudience"`
	Status         CampaignStatus  `json:"status"`
	TopInfluencers []TopInfluencer `json:"topInfluencers"`
	CreatedAt      time.Time       `json:"createdAt"`

	// Brand is the owning profile, attached on single-campaign reads.
	Brand *Brand `json:"brand,omitempty"`
}

func (c *Campaign) Validate() error {
	switch {
	case c.BrandID == "":
		return NewValidationError("campaign brand is required")
	case c.Name == "":
		return NewValidationError("campaign name is required")
	case c.Category == "":
		return NewValidationError("campaign category is required")
	case c.Budget < 0:
		return NewValidationError("campaign budget must not be negative")
	}
	return nil
}

// OwnedBy reports whether brandID owns the campaign.
func (c *Campaign) OwnedBy(brandID string) bool {
	return brandID != "" && c.BrandID == brandID
}
