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

const brandsCollection = "brands"

type BrandRepository struct {
	coll *mongo.Collection
}

func NewBrandRepository(db *mongo.Database) *BrandRepository {
	return &BrandRepository{coll: db.Collection(brandsCollection)}
}

type mongoBrand struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Username  string             `bson:"username"`
	Name      string             `bson:"name"`
	Bio       string             `bson:"bio,omitempty"`
	Category  string             `bson:"category,omitempty"`
	Email     string             `bson:"email,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (mb *mongoBrand) toDomain() *domain.Brand {
	return &domain.Brand{
		ID:        mb.ID.Hex(),
		UserID:    hexOrEmpty(mb.UserID),
		Username:  mb.Username,
		Name:      mb.Name,
		Bio:       mb.Bio,
		Category:  mb.Category,
		Email:     mb.Email,
		CreatedAt: mb.CreatedAt,
	}
}

// Create returns domain.ErrUsernameTaken on a duplicate username.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) (*domain.Brand, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	userID, err := objectID(b.UserID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoBrand{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Username:  b.Username,
		Name:      b.Name,
		Bio:       b.Bio,
		Category:  b.Category,
		Email:     b.Email,
		CreatedAt: b.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert brand: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *BrandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *BrandRepository) FindByUserID(ctx context.Context, userID string) (*domain.Brand, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"userId": oid})
}

func (r *BrandRepository) FindByUsername(ctx context.Context, username string) (*domain.Brand, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// UpdateProfile sets only the non-empty fields of update.
func (r *BrandRepository) UpdateProfile(ctx context.Context, id string, update domain.BrandProfileUpdate) (*domain.Brand, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Bio != "" {
		set["bio"] = update.Bio
	}
	if update.Category != "" {
		set["category"] = update.Category
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBrand
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mb)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BrandRepository) UpdateUsername(ctx context.Context, id, username string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"username": username}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("update brand username: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBrandNotFound
	}
	return nil
}

// List returns brands oldest first. limit <= 0 returns every brand.
func (r *BrandRepository) List(ctx context.Context, limit int64) ([]*domain.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	var docs []mongoBrand
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode brands: %w", err)
	}
	out := make([]*domain.Brand, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *BrandRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *BrandRepository) findOne(ctx context.Context, filter bson.M) (*domain.Brand, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBrand
	if err := r.coll.FindOne(ctx, filter).Decode(&mb); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, fmt.Errorf("find brand: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BrandRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: uniqueIndex()},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	return err
}
