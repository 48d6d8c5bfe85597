package mongo

import (
	"math"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

// rankingSort orders influencer profiles by engagement, then reach.
var rankingSort = bson.D{
	{Key: "engagement_rate", Value: -1},
	{Key: "followers", Value: -1},
}

var matchScoreSort = bson.D{{Key: "brand_match_score_scaled", Value: -1}}

// containsPattern is a case-insensitive substring regex. User input is
// quoted so metacharacters match literally.
func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func equalFoldPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// matchFilter translates a match-table query into a filter on brand_username.
func matchFilter(q domain.MatchQuery) bson.M {
	switch q.Mode {
	case domain.MatchCaseFold:
		return bson.M{"brand_username": equalFoldPattern(q.Username)}
	case domain.MatchSubstring:
		return bson.M{"brand_username": containsPattern(q.Username)}
	default:
		return bson.M{"brand_username": q.Username}
	}
}

// profileSearchFilter matches query against name, username or category.
func profileSearchFilter(query string) bson.M {
	p := containsPattern(query)
	return bson.M{"$or": bson.A{
		bson.M{"name": p},
		bson.M{"username": p},
		bson.M{"category": p},
	}}
}

func usernamesFilter(usernames []string) bson.M {
	return bson.M{"username": bson.M{"$in": usernames}}
}

// idsFilter matches documents by hex id. It returns a nil filter for an empty
// list and domain.ErrInvalidID for a malformed id.
func idsFilter(ids []string) (bson.M, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return bson.M{"_id": bson.M{"$in": oids}}, nil
}

// topMatchesOptions returns the highest scoring rows first.
func topMatchesOptions(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(matchScoreSort)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

func uniqueIndex() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

// pageOptions converts a 1-based page into skip/limit with the ranking sort.
// Pages past the int64 range are clamped so the skip never wraps negative.
func pageOptions(page, limit int64) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if limit > 0 && page-1 > math.MaxInt64/limit {
		page = math.MaxInt64/limit + 1
	}
	return options.Find().
		SetSort(rankingSort).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
}
