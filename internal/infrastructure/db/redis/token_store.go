package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps the live bearer token of every user in Redis.
// Key format: auth:token:<user_id>
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore whose keys expire after ttl. A
// non-positive ttl keeps tokens until overwritten.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl < 0 {
		ttl = 0
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Current returns the stored token, or "" when the key is missing or expired.
func (s *TokenStore) Current(ctx context.Context, userID int64) (string, error) {
	token, err := s.client.Get(ctx, s.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("token lookup: %w", err)
	}
	return token, nil
}

// Save replaces the user's token and resets its expiry.
func (s *TokenStore) Save(ctx context.Context, userID int64, token string) error {
	if err := s.client.Set(ctx, s.key(userID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("token save: %w", err)
	}
	return nil
}

func (s *TokenStore) key(userID int64) string {
	return "auth:token:" + strconv.FormatInt(userID, 10)
}
