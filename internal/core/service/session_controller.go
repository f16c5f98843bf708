package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
	"github.com/kpmroadlines/lr-console/internal/core/session"
)

const defaultRestoreDeadline = 8 * time.Second

// SessionController owns the session store and keeps it synchronized with the
// remote auth provider. It is the only writer of the store; every other
// component reads through a session.Snapshot.
//
// Provider events are drained on one goroutine and the profile fetches they
// trigger run on another. The indirection is deliberate: fetching inside the
// delivery path calls back into the provider while it is dispatching, which
// stalls its request queue.
type SessionController struct {
	provider   ports.AuthProvider
	identities ports.IdentityRepository
	activity   ports.ActivityStore
	store      *session.Store
	log        zerolog.Logger

	restoreDeadline time.Duration

	mu             sync.Mutex
	lastSeen       string // identity id whose profile is already loaded
	onSessionEnded func()

	fetchCh  chan string
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSessionController(
	provider ports.AuthProvider,
	identities ports.IdentityRepository,
	activity ports.ActivityStore,
	store *session.Store,
	restoreDeadline time.Duration,
	log zerolog.Logger,
) *SessionController {
	if restoreDeadline <= 0 {
		restoreDeadline = defaultRestoreDeadline
	}
	return &SessionController{
		provider:        provider,
		identities:      identities,
		activity:        activity,
		store:           store,
		log:             log,
		restoreDeadline: restoreDeadline,
		fetchCh:         make(chan string, 8),
		done:            make(chan struct{}),
	}
}

// OnSessionEnded registers a hook invoked whenever the session ends outside
// the login flow: an explicit or forced logout, or a remote sign-out observed
// on the provider event stream. The idle monitor hangs its Stop here so a
// session ended remotely does not leave the timer armed.
func (c *SessionController) OnSessionEnded(fn func()) {
	c.mu.Lock()
	c.onSessionEnded = fn
	c.mu.Unlock()
}

func (c *SessionController) sessionEnded() {
	c.mu.Lock()
	fn := c.onSessionEnded
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Start launches the provider event consumer and the deferred profile
// fetcher. Call Stop to tear both down.
func (c *SessionController) Start() {
	c.wg.Add(2)
	go c.consumeEvents()
	go c.runFetcher()
}

// Stop shuts down the background goroutines. Safe to call more than once.
func (c *SessionController) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

// RestoreSession resolves the startup session state: either a still-valid
// remote session maps to an active profile, or the store ends up cleared.
// It never returns an error and never takes longer than the restore deadline;
// the loading flag is dropped on every path.
func (c *SessionController) RestoreSession(ctx context.Context) *domain.Identity {
	defer c.store.SetLoading(false)

	ctx, cancel := context.WithTimeout(ctx, c.restoreDeadline)
	defer cancel()

	type outcome struct {
		identity *domain.Identity
		err      error
	}
	ch := make(chan outcome, 1)
	go func() {
		id, err := c.restore(ctx)
		ch <- outcome{id, err}
	}()

	select {
	case <-ctx.Done():
		c.log.Warn().Dur("deadline", c.restoreDeadline).Msg("session restore timed out, treating as logged out")
		c.store.Clear()
		return nil
	case out := <-ch:
		if out.err != nil {
			c.log.Info().Err(out.err).Msg("no session restored")
			c.store.Clear()
			return nil
		}
		c.install(out.identity)
		if err := c.activity.Touch(ctx, time.Now().UTC()); err != nil {
			c.log.Warn().Err(err).Msg("failed to record activity after restore")
		}
		return out.identity
	}
}

func (c *SessionController) restore(ctx context.Context) (*domain.Identity, error) {
	sess, err := c.provider.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrNotAuthenticated
	}
	ident, err := c.identities.FindByID(ctx, sess.IdentityID)
	if err != nil {
		return nil, err
	}
	// The active flag is re-checked on every restore, not just at login.
	// A valid token for a deactivated operator is a dead session.
	if !ident.Active {
		_ = c.provider.SignOut(ctx)
		return nil, domain.ErrProfileInactive
	}
	return ident, nil
}

// Login authenticates against the remote provider and loads the operator
// profile. A missing or inactive profile rejects the login and signs the
// fresh remote session back out, so no half-authenticated token survives.
func (c *SessionController) Login(ctx context.Context, handle, secret string) (*domain.Identity, string, error) {
	sess, err := c.provider.SignIn(ctx, handle, secret)
	if err != nil {
		return nil, "", err
	}

	// The provider emits its signed-in event during SignIn. Claim the
	// identity before the profile fetch so the event-driven fetcher does not
	// run a concurrent lookup for the same sign-in.
	c.mu.Lock()
	c.lastSeen = sess.IdentityID
	c.mu.Unlock()

	ident, err := c.identities.FindByHandle(ctx, handle)
	if err != nil {
		c.releaseClaim()
		_ = c.provider.SignOut(ctx)
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, "", domain.ErrProfileNotFound
		}
		return nil, "", err
	}
	if !ident.Active {
		c.releaseClaim()
		_ = c.provider.SignOut(ctx)
		return nil, "", domain.ErrProfileInactive
	}

	now := time.Now().UTC()
	if err := c.identities.RecordLogin(ctx, ident.ID, now); err != nil {
		c.log.Warn().Err(err).Str("identity", ident.ID).Msg("failed to record last login")
	}
	ident.LastLoginAt = now

	c.install(ident)
	if err := c.activity.Touch(ctx, now); err != nil {
		c.log.Warn().Err(err).Msg("failed to record activity after login")
	}

	c.log.Info().Str("identity", ident.ID).Str("handle", ident.Handle).Msg("logged in")
	return ident, sess.Token, nil
}

// Logout signs out remotely and clears all local session state. Idempotent:
// a second call observes the same end state as the first.
func (c *SessionController) Logout(ctx context.Context) {
	if err := c.provider.SignOut(ctx); err != nil {
		c.log.Warn().Err(err).Msg("remote sign-out failed")
	}
	c.store.Clear()
	if err := c.activity.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear activity marker")
	}
	c.mu.Lock()
	c.lastSeen = ""
	c.mu.Unlock()
	c.sessionEnded()
}

// RefreshSession re-derives the identity from the current remote session,
// used after a forced password change. When the session no longer yields a
// usable profile this degenerates to a full logout rather than leaving
// stale state behind.
func (c *SessionController) RefreshSession(ctx context.Context) (*domain.Identity, string, error) {
	sess, err := c.provider.RefreshSession(ctx)
	if err != nil || sess == nil {
		c.Logout(ctx)
		return nil, "", domain.ErrNotAuthenticated
	}
	ident, err := c.identities.FindByID(ctx, sess.IdentityID)
	if err != nil || !ident.Active {
		c.Logout(ctx)
		return nil, "", domain.ErrNotAuthenticated
	}
	c.install(ident)
	return ident, sess.Token, nil
}

// releaseClaim drops the identity claimed during a rejected login so later
// provider events fetch the profile normally.
func (c *SessionController) releaseClaim() {
	c.mu.Lock()
	c.lastSeen = ""
	c.mu.Unlock()
}

func (c *SessionController) install(id *domain.Identity) {
	c.mu.Lock()
	c.lastSeen = id.ID
	c.mu.Unlock()
	c.store.Set(id)
}

func (c *SessionController) consumeEvents() {
	defer c.wg.Done()
	events := c.provider.Events()
	for {
		select {
		case <-c.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleEvent(ev)
		}
	}
}

// handleEvent reacts to one provider event. It must stay non-blocking and
// must not call back into the provider; anything remote is handed to the
// fetcher goroutine.
func (c *SessionController) handleEvent(ev domain.AuthEvent) {
	switch ev.Kind {
	case domain.AuthSignedIn, domain.AuthTokenRefreshed:
		c.mu.Lock()
		seen := ev.IdentityID != "" && c.lastSeen == ev.IdentityID
		c.mu.Unlock()
		if seen {
			return // profile already loaded, no redundant fetch
		}
		select {
		case c.fetchCh <- ev.IdentityID:
		default: // a fetch is already queued
		}
	case domain.AuthSignedOut, domain.AuthAccountDeleted:
		c.store.Clear()
		c.mu.Lock()
		c.lastSeen = ""
		c.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.activity.Clear(ctx); err != nil {
			c.log.Warn().Err(err).Msg("failed to clear activity marker")
		}
		c.sessionEnded()
		c.log.Info().Str("event", string(ev.Kind)).Msg("remote session ended")
	}
}

func (c *SessionController) runFetcher() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case id := <-c.fetchCh:
			c.fetchProfile(id)
		}
	}
}

func (c *SessionController) fetchProfile(id string) {
	c.mu.Lock()
	seen := id != "" && c.lastSeen == id
	c.mu.Unlock()
	if seen {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.restoreDeadline)
	defer cancel()

	ident, err := c.identities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrProfileNotFound) {
			// Remote session is alive but the operator is gone.
			c.Logout(ctx)
			return
		}
		c.log.Warn().Err(err).Str("identity", id).Msg("deferred profile fetch failed")
		return
	}
	if !ident.Active {
		c.Logout(ctx)
		return
	}
	c.install(ident)
}
