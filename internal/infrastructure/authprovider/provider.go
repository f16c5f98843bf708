// Package authprovider implements the remote authentication contract over
// signed session tokens persisted in the shared token store. It stands in
// for the hosted backend's built-in auth: sign-in issues a token, startup
// restores one, and a background refresher keeps it fresh, announcing every
// state change on an event stream.
package authprovider

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
	"github.com/kpmroadlines/lr-console/internal/core/ports"
)

const (
	defaultTokenTTL = 24 * time.Hour
	refreshDivisor  = 2
	opTimeout       = 5 * time.Second
)

type Provider struct {
	identities ports.IdentityRepository
	tokens     ports.TokenStore
	secret     []byte
	ttl        time.Duration
	log        zerolog.Logger

	events    chan domain.AuthEvent
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(identities ports.IdentityRepository, tokens ports.TokenStore, secret string, ttl time.Duration, log zerolog.Logger) *Provider {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Provider{
		identities: identities,
		tokens:     tokens,
		secret:     []byte(secret),
		ttl:        ttl,
		log:        log,
		events:     make(chan domain.AuthEvent, 16),
		done:       make(chan struct{}),
	}
}

// StartAutoRefresh launches the background refresher. Construct the provider
// only after any stale persisted token has been swept: the refresher picks
// up whatever token it finds.
func (p *Provider) StartAutoRefresh() {
	p.wg.Add(1)
	go p.refreshLoop()
}

// Close stops the refresher and closes the event stream.
func (p *Provider) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		close(p.events)
	})
}

// Events returns the stream of asynchronous auth state changes.
func (p *Provider) Events() <-chan domain.AuthEvent {
	return p.events
}

func (p *Provider) SignIn(ctx context.Context, handle, secret string) (*ports.Session, error) {
	ident, err := p.identities.FindByHandle(ctx, handle)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(secret)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess, err := p.issue(ctx, ident)
	if err != nil {
		return nil, err
	}
	p.emit(domain.AuthEvent{Kind: domain.AuthSignedIn, IdentityID: ident.ID})
	return sess, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.tokens.Clear(ctx); err != nil {
		return err
	}
	p.emit(domain.AuthEvent{Kind: domain.AuthSignedOut})
	return nil
}

// GetSession returns the session behind the persisted token, or nil when
// there is none. A malformed or expired token counts as no session, not as
// an error.
func (p *Provider) GetSession(ctx context.Context) (*ports.Session, error) {
	token, ok, err := p.tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	sess, err := p.parse(token)
	if err != nil {
		p.log.Debug().Err(err).Msg("persisted token rejected, clearing")
		_ = p.tokens.Clear(ctx)
		return nil, nil
	}
	return sess, nil
}

func (p *Provider) RefreshSession(ctx context.Context) (*ports.Session, error) {
	current, err := p.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotAuthenticated
	}

	ident, err := p.identities.FindByID(ctx, current.IdentityID)
	if err != nil {
		return nil, err
	}
	return p.issue(ctx, ident)
}

func (p *Provider) refreshLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.ttl / refreshDivisor)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
			sess, err := p.RefreshSession(ctx)
			cancel()
			if err != nil || sess == nil {
				continue
			}
			p.emit(domain.AuthEvent{Kind: domain.AuthTokenRefreshed, IdentityID: sess.IdentityID})
		}
	}
}

// emit delivers an event without ever blocking the caller.
func (p *Provider) emit(ev domain.AuthEvent) {
	select {
	case p.events <- ev:
	default:
		p.log.Warn().Str("event", string(ev.Kind)).Msg("auth event dropped, stream full")
	}
}

func (p *Provider) issue(ctx context.Context, ident *domain.Identity) (*ports.Session, error) {
	expiresAt := time.Now().UTC().Add(p.ttl)
	claims := jwt.MapClaims{
		"sub":    ident.ID,
		"handle": ident.Handle,
		"role":   ident.Role,
		"branch": ident.Branch,
		"exp":    expiresAt.Unix(),
		"iat":    time.Now().UTC().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, err
	}
	if err := p.tokens.Save(ctx, token, p.ttl); err != nil {
		return nil, err
	}

	return &ports.Session{
		Token:      token,
		IdentityID: ident.ID,
		Handle:     ident.Handle,
		ExpiresAt:  expiresAt,
	}, nil
}

func (p *Provider) parse(token string) (*ports.Session, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	sub, _ := claims["sub"].(string)
	handle, _ := claims["handle"].(string)
	if sub == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}

	sess := &ports.Session{Token: token, IdentityID: sub, Handle: handle}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time.UTC()
	}
	return sess, nil
}
