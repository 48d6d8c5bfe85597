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

const influencersCollection = "influencers"

type InfluencerRepository struct {
	coll *mongo.Collection
}

func NewInfluencerRepository(db *mongo.Database) *InfluencerRepository {
	return &InfluencerRepository{coll: db.Collection(influencersCollection)}
}

// mongoStats mirrors domain.InfluencerStats; both profile collections inline it.
type mongoStats struct {
	Name               string  `bson:"name,omitempty"`
	Followers          int64   `bson:"followers"`
	Followees          int64   `bson:"followees"`
	Posts              int64   `bson:"posts"`
	Category           string  `bson:"category,omitempty"`
	Email              string  `bson:"email,omitempty"`
	Bio                string  `bson:"bio,omitempty"`
	Comments           int64   `bson:"comments"`
	EngagementRate     float64 `bson:"engagement_rate"`
	BotScore           float64 `bson:"bot_score"`
	Authenticity       float64 `bson:"authenticity"`
	Pagerank           float64 `bson:"pagerank"`
	PositivePercentage float64 `bson:"positive_percentage"`
	NeutralPercentage  float64 `bson:"neutral_percentage"`
	NegativePercentage float64 `bson:"negative_percentage"`
}

func statsFromDomain(s domain.InfluencerStats) mongoStats {
	return mongoStats(s)
}

func (s mongoStats) toDomain() domain.InfluencerStats {
	return domain.InfluencerStats(s)
}

type mongoInfluencer struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	UserID               primitive.ObjectID `bson:"userId,omitempty"`
	Username             string             `bson:"username"`
	Stats                mongoStats         `bson:",inline"`
	NumPosts             int64              `bson:"num_posts"`
	Likes                int64              `bson:"likes"`
	EngagementLog        float64            `bson:"engagement_log"`
	EngagementRateScaled float64            `bson:"engagement_rate_scaled"`
	SentimentScore       float64            `bson:"sentiment_score"`
	DominantSentiment    string             `bson:"dominant_sentiment,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

func influencerFromDomain(inf *domain.Influencer) (*mongoInfluencer, error) {
	userID, err := optionalObjectID(inf.UserID)
	if err != nil {
		return nil, err
	}
	id := primitive.NewObjectID()
	if inf.ID != "" {
		if id, err = objectID(inf.ID); err != nil {
			return nil, err
		}
	}
	return &mongoInfluencer{
		ID:                   id,
		UserID:               userID,
		Username:             inf.Username,
		Stats:                statsFromDomain(inf.InfluencerStats),
		NumPosts:             inf.NumPosts,
		Likes:                inf.Likes,
		EngagementLog:        inf.EngagementLog,
		EngagementRateScaled: inf.EngagementRateScaled,
		SentimentScore:       inf.SentimentScore,
		DominantSentiment:    inf.DominantSentiment,
		CreatedAt:            inf.CreatedAt.UTC(),
	}, nil
}

func (mi *mongoInfluencer) toDomain() *domain.Influencer {
	return &domain.Influencer{
		ID:                   mi.ID.Hex(),
		UserID:               hexOrEmpty(mi.UserID),
		Username:             mi.Username,
		InfluencerStats:      mi.Stats.toDomain(),
		NumPosts:             mi.NumPosts,
		Likes:                mi.Likes,
		EngagementLog:        mi.EngagementLog,
		EngagementRateScaled: mi.EngagementRateScaled,
		SentimentScore:       mi.SentimentScore,
		DominantSentiment:    mi.DominantSentiment,
		CreatedAt:            mi.CreatedAt,
	}
}

func (r *InfluencerRepository) Create(ctx context.Context, inf *domain.Influencer) (*domain.Influencer, error) {
	if err := inf.Validate(); err != nil {
		return nil, err
	}
	doc, err := influencerFromDomain(inf)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert influencer: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *InfluencerRepository) FindByID(ctx context.Context, id string) (*domain.Influencer, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *InfluencerRepository) FindByUserID(ctx context.Context, userID string) (*domain.Influencer, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"userId": oid})
}

func (r *InfluencerRepository) FindByUsername(ctx context.Context, username string) (*domain.Influencer, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *InfluencerRepository) FindByUsernames(ctx context.Context, usernames []string) ([]*domain.Influencer, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	return r.find(ctx, usernamesFilter(usernames), options.Find())
}

func (r *InfluencerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Influencer, error) {
	filter, err := idsFilter(ids)
	if err != nil || filter == nil {
		return nil, err
	}
	return r.find(ctx, filter, options.Find())
}

// ClaimOwner sets userId on a profile that has none yet.
func (r *InfluencerRepository) ClaimOwner(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "userId": nil},
		bson.M{"$set": bson.M{"userId": uid}},
	)
	if err != nil {
		return fmt.Errorf("claim influencer: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("claim influencer: %w", err)
	}
	if n == 0 {
		return domain.ErrInfluencerNotFound
	}
	return domain.ErrUsernameTaken
}

func (r *InfluencerRepository) Top(ctx context.Context, limit int64) ([]*domain.Influencer, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(rankingSort).SetLimit(limit))
}

func (r *InfluencerRepository) SearchByCategory(ctx context.Context, category string, limit int64) ([]*domain.Influencer, error) {
	return r.find(ctx,
		bson.M{"category": containsPattern(category)},
		options.Find().SetSort(rankingSort).SetLimit(limit),
	)
}

func (r *InfluencerRepository) ReplaceAll(ctx context.Context, items []*domain.Influencer) (int, error) {
	docs := make([]any, 0, len(items))
	for _, inf := range items {
		doc, err := influencerFromDomain(inf)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	return replaceAll(ctx, r.coll, docs)
}

func (r *InfluencerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *InfluencerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoInfluencer
	if err := r.coll.FindOne(ctx, filter).Decode(&mi); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrInfluencerNotFound
		}
		return nil, fmt.Errorf("find influencer: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *InfluencerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Influencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find influencers: %w", err)
	}
	var docs []mongoInfluencer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode influencers: %w", err)
	}
	out := make([]*domain.Influencer, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *InfluencerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: uniqueIndex()},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: rankingSort},
	})
	return err
}
