package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKey = "lrc:session:token"

// TokenStore persists the remote auth token blob between process runs, the
// shared-storage slot the auth provider restores its session from.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey, token, ttl).Err()
}

func (s *TokenStore) Load(ctx context.Context) (string, bool, error) {
	v, err := s.client.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token read: %w", err)
	}
	return v, true, nil
}

func (s *TokenStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, tokenKey).Err()
}
