package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingMarker is stored while the first request for a key is still in
// flight. It signals "claimed, no response recorded yet".
const pendingMarker = "processing"

// IdempotencyStore keeps replay responses for mutating requests, keyed
// by the client's Idempotency-Key header. Entries expire on their TTL;
// a replayed key after expiry is treated as a fresh request.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates an IdempotencyStore on client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet claims key if it is free and reports whether it was
// already claimed. For an already-claimed key the recorded response is
// returned. A nil response claims the key with a pending marker.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	k := s.prefix + key

	var value any = response
	if response == nil {
		value = pendingMarker
	}

	claimed, err := s.client.SetNX(ctx, k, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	stored, err := s.client.Get(ctx, k).Bytes()
	if err == redis.Nil {
		// The entry expired between SetNX and Get. Let the caller run
		// as the first request.
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	return true, stored, nil
}

// Update records the final response for an already-claimed key,
// replacing the pending marker.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
