package ports

import (
	"context"
	"time"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

// Session is an issued remote session token plus its decoded subject.
type Session struct {
	Token      string
	IdentityID string
	Handle     string
	ExpiresAt  time.Time
}

// AuthProvider is the remote authentication service. Asynchronous state
// changes (background token refresh, external sign-out, account deletion)
// arrive on the Events stream; consumers must never call back into the
// provider synchronously from the goroutine draining that stream.
type AuthProvider interface {
	SignIn(ctx context.Context, handle, secret string) (*Session, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	RefreshSession(ctx context.Context) (*Session, error)
	Events() <-chan domain.AuthEvent
}
