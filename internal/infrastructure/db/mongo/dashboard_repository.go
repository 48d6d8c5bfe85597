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

const dashboardCollection = "dashboardinfluencers"

type DashboardInfluencerRepository struct {
	coll *mongo.Collection
}

func NewDashboardInfluencerRepository(db *mongo.Database) *DashboardInfluencerRepository {
	return &DashboardInfluencerRepository{coll: db.Collection(dashboardCollection)}
}

type mongoDashboardInfluencer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Stats      mongoStats         `bson:",inline"`
	TotalPosts int64              `bson:"total_posts"`
	TotalLikes int64              `bson:"total_likes"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (md *mongoDashboardInfluencer) toDomain() *domain.DashboardInfluencer {
	return &domain.DashboardInfluencer{
		ID:              md.ID.Hex(),
		Username:        md.Username,
		InfluencerStats: md.Stats.toDomain(),
		TotalPosts:      md.TotalPosts,
		TotalLikes:      md.TotalLikes,
		CreatedAt:       md.CreatedAt,
	}
}

func (r *DashboardInfluencerRepository) FindByUsername(ctx context.Context, username string) (*domain.DashboardInfluencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDashboardInfluencer
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&md); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrInfluencerNotFound
		}
		return nil, fmt.Errorf("find dashboard influencer: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DashboardInfluencerRepository) FindByUsernames(ctx context.Context, usernames []string) ([]*domain.DashboardInfluencer, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	return r.find(ctx, usernamesFilter(usernames), options.Find())
}

func (r *DashboardInfluencerRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.DashboardInfluencer, error) {
	filter, err := idsFilter(ids)
	if err != nil || filter == nil {
		return nil, err
	}
	return r.find(ctx, filter, options.Find())
}

func (r *DashboardInfluencerRepository) List(ctx context.Context, page, limit int64) ([]*domain.DashboardInfluencer, error) {
	return r.find(ctx, bson.M{}, pageOptions(page, limit))
}

func (r *DashboardInfluencerRepository) Search(ctx context.Context, query string, limit int64) ([]*domain.DashboardInfluencer, error) {
	return r.find(ctx, profileSearchFilter(query), options.Find().SetSort(rankingSort).SetLimit(limit))
}

func (r *DashboardInfluencerRepository) ReplaceAll(ctx context.Context, items []*domain.DashboardInfluencer) (int, error) {
	docs := make([]any, 0, len(items))
	for _, d := range items {
		docs = append(docs, mongoDashboardInfluencer{
			ID:         primitive.NewObjectID(),
			Username:   d.Username,
			Stats:      statsFromDomain(d.InfluencerStats),
			TotalPosts: d.TotalPosts,
			TotalLikes: d.TotalLikes,
			CreatedAt:  d.CreatedAt.UTC(),
		})
	}
	return replaceAll(ctx, r.coll, docs)
}

func (r *DashboardInfluencerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *DashboardInfluencerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.DashboardInfluencer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find dashboard influencers: %w", err)
	}
	var docs []mongoDashboardInfluencer
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode dashboard influencers: %w", err)
	}
	out := make([]*domain.DashboardInfluencer, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *DashboardInfluencerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: uniqueIndex()},
		{Keys: rankingSort},
	})
	return err
}
