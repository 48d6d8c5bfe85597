package mongo

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

const brandMatchesCollection = "brandmatches"

type BrandMatchRepository struct {
	coll *mongo.Collection
}

func NewBrandMatchRepository(db *mongo.Database) *BrandMatchRepository {
	return &BrandMatchRepository{coll: db.Collection(brandMatchesCollection)}
}

// mongoBrandMatch keeps the score columns flat, as exported by the pipeline.
type mongoBrandMatch struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty"`
	BrandUsername          string             `bson:"brand_username"`
	BrandName              string             `bson:"brand_name,omitempty"`
	BrandBio               string             `bson:"brand_bio,omitempty"`
	BrandCategory          string             `bson:"brand_category,omitempty"`
	Email                  string             `bson:"email,omitempty"`
	InfluencerUsername     string             `bson:"influencer_username"`
	InfluencerCategory     string             `bson:"influencer_category,omitempty"`
	EngagementRateScaled   float64            `bson:"engagement_rate_scaled"`
	Pagerank               float64            `bson:"pagerank"`
	BotScore               float64            `bson:"bot_score"`
	SponsoredPostsScaled   float64            `bson:"sponsored_posts_scaled"`
	CategoryRelevanceScore float64            `bson:"category_relevance_score"`
	SentimentScore         float64            `bson:"sentiment_score"`
	BrandMatchScoreScaled  float64            `bson:"brand_match_score_scaled"`
}

func brandMatchFromDomain(m *domain.BrandMatch) mongoBrandMatch {
	return mongoBrandMatch{
		ID:                     primitive.NewObjectID(),
		BrandUsername:          m.BrandUsername,
		BrandName:              m.BrandName,
		BrandBio:               m.BrandBio,
		BrandCategory:          m.BrandCategory,
		Email:                  m.BrandEmail,
		InfluencerUsername:     m.InfluencerUsername,
		InfluencerCategory:     m.InfluencerCategory,
		EngagementRateScaled:   m.Scores.EngagementRateScaled,
		Pagerank:               m.Scores.Pagerank,
		BotScore:               m.Scores.BotScore,
		SponsoredPostsScaled:   m.Scores.SponsoredPostsScaled,
		CategoryRelevanceScore: m.Scores.CategoryRelevanceScore,
		SentimentScore:         m.Scores.SentimentScore,
		BrandMatchScoreScaled:  m.BrandMatchScoreScaled,
	}
}

func (mm *mongoBrandMatch) toDomain() *domain.BrandMatch {
	return &domain.BrandMatch{
		ID:                 mm.ID.Hex(),
		BrandUsername:      mm.BrandUsername,
		BrandName:          mm.BrandName,
		BrandBio:           mm.BrandBio,
		BrandCategory:      mm.BrandCategory,
		BrandEmail:         mm.Email,
		InfluencerUsername: mm.InfluencerUsername,
		InfluencerCategory: mm.InfluencerCategory,
		Scores: domain.MatchScores{
			EngagementRateScaled:   mm.EngagementRateScaled,
			Pagerank:               mm.Pagerank,
			BotScore:               mm.BotScore,
			SponsoredPostsScaled:   mm.SponsoredPostsScaled,
			CategoryRelevanceScore: mm.CategoryRelevanceScore,
			SentimentScore:         mm.SentimentScore,
		},
		BrandMatchScoreScaled: mm.BrandMatchScoreScaled,
	}
}

func (r *BrandMatchRepository) FindTop(ctx context.Context, q domain.MatchQuery, limit int64) ([]*domain.BrandMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, matchFilter(q), topMatchesOptions(limit))
	if err != nil {
		return nil, fmt.Errorf("find brand matches: %w", err)
	}
	var docs []mongoBrandMatch
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode brand matches: %w", err)
	}
	out := make([]*domain.BrandMatch, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *BrandMatchRepository) FindFirst(ctx context.Context, q domain.MatchQuery) (*domain.BrandMatch, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mm mongoBrandMatch
	if err := r.coll.FindOne(ctx, matchFilter(q)).Decode(&mm); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrNoBrandMatches
		}
		return nil, fmt.Errorf("find brand match: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *BrandMatchRepository) CountMatching(ctx context.Context, q domain.MatchQuery) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, matchFilter(q))
}

func (r *BrandMatchRepository) DistinctBrandUsernames(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "brand_username", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct brand usernames: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// availableBrandsPipeline groups the match table into one entry per brand.
func availableBrandsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$brand_username"},
			{Key: "brand_name", Value: bson.D{{Key: "$first", Value: "$brand_name"}}},
			{Key: "brand_category", Value: bson.D{{Key: "$first", Value: "$brand_category"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "brand_name", Value: 1}}}},
	}
}

func (r *BrandMatchRepository) AvailableBrands(ctx context.Context) ([]domain.BrandSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, availableBrandsPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate available brands: %w", err)
	}
	var rows []struct {
		Username string `bson:"_id"`
		Name     string `bson:"brand_name"`
		Category string `bson:"brand_category"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode available brands: %w", err)
	}
	out := make([]domain.BrandSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BrandSummary{Username: row.Username, Name: row.Name, Category: row.Category})
	}
	return out, nil
}

func (r *BrandMatchRepository) ReplaceAll(ctx context.Context, items []*domain.BrandMatch) (int, error) {
	docs := make([]any, 0, len(items))
	for _, m := range items {
		docs = append(docs, brandMatchFromDomain(m))
	}
	return replaceAll(ctx, r.coll, docs)
}

func (r *BrandMatchRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *BrandMatchRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "brand_username", Value: 1},
			{Key: "brand_match_score_scaled", Value: -1},
		}},
	})
	return err
}
