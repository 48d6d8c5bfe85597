package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brandscape/brandscape-api/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	// bulkTimeout bounds wholesale collection rebuilds during import.
	bulkTimeout = 5 * time.Minute
	insertBatch = 1000
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// objectID parses a hex id, mapping malformed input to domain.ErrInvalidID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// optionalObjectID parses id when set and returns NilObjectID otherwise.
func optionalObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return objectID(id)
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// replaceAll empties coll and inserts docs in batches.
func replaceAll(ctx context.Context, coll *mongo.Collection, docs []any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, fmt.Errorf("clear %s: %w", coll.Name(), err)
	}

	inserted := 0
	for start := 0; start < len(docs); start += insertBatch {
		end := min(start+insertBatch, len(docs))
		res, err := coll.InsertMany(ctx, docs[start:end], options.InsertMany().SetOrdered(false))
		if res != nil {
			inserted += len(res.InsertedIDs)
		}
		if err != nil {
			return inserted, fmt.Errorf("insert %s: %w", coll.Name(), err)
		}
	}
	return inserted, nil
}
