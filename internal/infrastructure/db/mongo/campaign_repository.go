package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

const campaignsCollection = "campaigns"

type CampaignRepository struct {
	coll *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{coll: db.Collection(campaignsCollection)}
}

type mongoTargetAudience struct {
	AgeGroups []string `bson:"ageGroups"`
	Locations []string `bson:"locations"`
	Gender    string   `bson:"gender,omitempty"`
}

type mongoMatchData struct {
	EngagementRateScaled   float64 `bson:"engagement_rate_scaled"`
	Pagerank               float64 `bson:"pagerank"`
	BotScore               float64 `bson:"bot_score"`
	SponsoredPostsScaled   float64 `bson:"sponsored_posts_scaled"`
	CategoryRelevanceScore float64 `bson:"category_relevance_score"`
	SentimentScore         float64 `bson:"sentiment_score"`
}

type mongoTopInfluencer struct {
	InfluencerID       primitive.ObjectID `bson:"influencerId"`
	InfluencerUsername string             `bson:"influencerUsername"`
	InfluencerName     string             `bson:"influencerName,omitempty"`
	Category           string             `bson:"category,omitempty"`
	Followers          int64              `bson:"followers"`
	Source             string             `bson:"source"`
	BrandMatchScore    float64            `bson:"brandMatchScore"`
	MatchData          mongoMatchData     `bson:"matchData"`
}

type mongoCampaign struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	BrandID        primitive.ObjectID   `bson:"brandId"`
	Name           string               `bson:"name"`
	Category       string               `bson:"category"`
	Description    string               `bson:"description,omitempty"`
	Budget         float64              `bson:"budget"`
	TargetAudience mongoTargetAudience  `bson:"targetAudience"`
	Status         string               `bson:"status"`
	TopInfluencers []mongoTopInfluencer `bson:"topInfluencers"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func topInfluencersFromDomain(top []domain.TopInfluencer) ([]mongoTopInfluencer, error) {
	out := make([]mongoTopInfluencer, 0, len(top))
	for _, t := range top {
		id, err := objectID(t.InfluencerID)
		if err != nil {
			return nil, fmt.Errorf("influencer %q: %w", t.InfluencerUsername, err)
		}
		out = append(out, mongoTopInfluencer{
			InfluencerID:       id,
			InfluencerUsername: t.InfluencerUsername,
			InfluencerName:     t.InfluencerName,
			Category:           t.Category,
			Followers:          t.Followers,
			Source:             string(t.Source),
			BrandMatchScore:    t.BrandMatchScore,
			MatchData:          mongoMatchData(t.MatchData),
		})
	}
	return out, nil
}

func (mc *mongoCampaign) toDomain() *domain.Campaign {
	top := make([]domain.TopInfluencer, 0, len(mc.TopInfluencers))
	for _, t := range mc.TopInfluencers {
		top = append(top, domain.TopInfluencer{
			InfluencerID:       hexOrEmpty(t.InfluencerID),
			InfluencerUsername: t.InfluencerUsername,
			InfluencerName:     t.InfluencerName,
			Category:           t.Category,
			Followers:          t.Followers,
			Source:             domain.ProfileSource(t.Source),
			BrandMatchScore:    t.BrandMatchScore,
			MatchData:          domain.MatchScores(t.MatchData),
		})
	}
	return &domain.Campaign{
		ID:          mc.ID.Hex(),
		BrandID:     hexOrEmpty(mc.BrandID),
		Name:        mc.Name,
		Category:    mc.Category,
		Description: mc.Description,
		Budget:      mc.Budget,
		TargetAudience: domain.TargetAudience{
			AgeGroups: mc.TargetAudience.AgeGroups,
			Locations: mc.TargetAudience.Locations,
			Gender:    mc.TargetAudience.Gender,
		},
		Status:         domain.CampaignStatus(mc.Status),
		TopInfluencers: top,
		CreatedAt:      mc.CreatedAt,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	brandID, err := objectID(c.BrandID)
	if err != nil {
		return nil, err
	}
	top, err := topInfluencersFromDomain(c.TopInfluencers)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCampaign{
		ID:          primitive.NewObjectID(),
		BrandID:     brandID,
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		Budget:      c.Budget,
		TargetAudience: mongoTargetAudience{
			AgeGroups: nonNil(c.TargetAudience.AgeGroups),
			Locations: nonNil(c.TargetAudience.Locations),
			Gender:    c.TargetAudience.Gender,
		},
		Status:         string(c.Status),
		TopInfluencers: top,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*domain.Campaign, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCampaign
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return mc.toDomain(), nil
}

// ListByBrand omits campaigns still pending finalization.
func (r *CampaignRepository) ListByBrand(ctx context.Context, brandID string) ([]*domain.Campaign, error) {
	oid, err := objectID(brandID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx,
		bson.M{"brandId": oid, "status": bson.M{"$ne": string(domain.CampaignPending)}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
}

// Finalize is conditioned on status=pending so a campaign is finalized once.
func (r *CampaignRepository) Finalize(ctx context.Context, id string, top []domain.TopInfluencer) (*domain.Campaign, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	docs, err := topInfluencersFromDomain(top)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(domain.CampaignPending)}
	update := bson.M{"$set": bson.M{
		"topInfluencers": docs,
		"status":         string(domain.CampaignActive),
		"updatedAt":      time.Now().UTC(),
	}}

	var mc mongoCampaign
	err = r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("finalize campaign: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) FindPending(ctx context.Context, olderThan time.Time, limit int64) ([]*domain.Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, bson.M{
		"status":    string(domain.CampaignPending),
		"createdAt": bson.M{"$lt": olderThan.UTC()},
	}, opts)
}

func (r *CampaignRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find campaigns: %w", err)
	}
	var docs []mongoCampaign
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	out := make([]*domain.Campaign, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *CampaignRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "brandId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
