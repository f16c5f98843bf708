package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activityKey = "lrc:session:activity"

// ActivityStore keeps the shared last-activity timestamp in Redis, visible
// to every console instance of the same deployment. Concurrent writers are
// fine: the value is a plain timestamp and the freshest write wins.
type ActivityStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewActivityStore wraps the given client. The marker lives for twice the
// idle window so a firing idle timer can still read it after expiry.
func NewActivityStore(client *redis.Client, idleTimeout time.Duration) *ActivityStore {
	return &ActivityStore{client: client, ttl: 2 * idleTimeout}
}

func (s *ActivityStore) Touch(ctx context.Context, t time.Time) error {
	return s.client.Set(ctx, activityKey, t.UTC().Format(time.RFC3339Nano), s.ttl).Err()
}

func (s *ActivityStore) Last(ctx context.Context) (time.Time, bool, error) {
	v, err := s.client.Get(ctx, activityKey).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("activity read: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		// malformed marker is treated as absent, not propagated
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (s *ActivityStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, activityKey).Err()
}
