package service

import (
	"context"
	"time"

	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

// SweepStaleToken deletes the persisted auth token when the shared activity
// marker shows the previous session already idled out (or no activity was
// ever recorded). It must run before the auth provider is constructed: the
// provider's background refresher would otherwise pick up a token that is
// due for forced logout and try to refresh it. The ordering is load-bearing.
func SweepStaleToken(ctx context.Context, tokens ports.TokenStore, activity ports.ActivityStore, window time.Duration, now func() time.Time) (bool, error) {
	if now == nil {
		now = time.Now
	}

	last, ok, err := activity.Last(ctx)
	if err != nil {
		return false, err
	}
	if ok && now().UTC().Sub(last) <= window {
		return false, nil
	}

	_, exists, err := tokens.Load(ctx)
	if err != nil || !exists {
		return false, err
	}
	if err := tokens.Clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}
