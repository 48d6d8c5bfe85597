package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the typed repositories over one database. It is built once at
// startup and passed to the services that need it.
type Store struct {
	Users       *MongoAuthRepository
	Brands      *BrandRepository
	Influencers *InfluencerRepository
	Dashboard   *DashboardInfluencerRepository
	Matches     *BrandMatchRepository
	Campaigns   *CampaignRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		Users:       NewAuthRepository(db),
		Brands:      NewBrandRepository(db),
		Influencers: NewInfluencerRepository(db),
		Dashboard:   NewDashboardInfluencerRepository(db),
		Matches:     NewBrandMatchRepository(db),
		Campaigns:   NewCampaignRepository(db),
	}
}

// EnsureIndexes creates the indexes every collection relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{usersCollection, s.Users.EnsureIndexes},
		{brandsCollection, s.Brands.EnsureIndexes},
		{influencersCollection, s.Influencers.EnsureIndexes},
		{dashboardCollection, s.Dashboard.EnsureIndexes},
		{brandMatchesCollection, s.Matches.EnsureIndexes},
		{campaignsCollection, s.Campaigns.EnsureIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", step.name, err)
		}
	}
	return nil
}
