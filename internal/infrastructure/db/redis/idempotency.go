package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// reservationTTL bounds how long an unfinished request holds its key.
	reservationTTL = time.Minute
)

// IdempotencyStore binds a client-supplied Idempotency-Key to the campaign it
// created. A held key with an empty value belongs to a request still running.
// Key format: idem:campaign:<brand_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. ttl <= 0 uses defaultIdempotencyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims the key with SETNX and an empty placeholder value.
func (s *IdempotencyStore) Reserve(ctx context.Context, brandID, key string) (string, bool, error) {
	k := s.key(brandID, key)
	ok, err := s.client.SetNX(ctx, k, "", reservationTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}
	id, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls; the caller sees it as in use
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, false, nil
}

// Remember overwrites the placeholder with campaignID for the full TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, brandID, key, campaignID string) error {
	if err := s.client.Set(ctx, s.key(brandID, key), campaignID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, brandID, key string) error {
	if err := s.client.Del(ctx, s.key(brandID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(brandID, key string) string {
	return fmt.Sprintf("idem:campaign:%s:%s", brandID, key)
}
