package ports

import (
	"context"
	"time"
)

// ActivityStore persists the shared "last user activity" timestamp. It is
// origin-scoped shared state: several console instances read and write it
// concurrently, and the freshest value wins.
type ActivityStore interface {
	Touch(ctx context.Context, t time.Time) error
	// Last returns the stored timestamp and whether one exists.
	Last(ctx context.Context) (time.Time, bool, error)
	Clear(ctx context.Context) error
}

// TokenStore persists the remote auth token blob between runs.
type TokenStore interface {
	Save(ctx context.Context, token string, ttl time.Duration) error
	// Load returns the stored token and whether one exists.
	Load(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}
