package authprovider

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

type memIdentityRepo struct {
	mu         sync.Mutex
	identities map[string]*domain.Identity
}

func newMemIdentityRepo(idents ...*domain.Identity) *memIdentityRepo {
	r := &memIdentityRepo{identities: make(map[string]*domain.Identity)}
	for _, ident := range idents {
		clone := *ident
		r.identities[ident.ID] = &clone
	}
	return r
}

func (r *memIdentityRepo) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ident, ok := r.identities[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *ident
	return &clone, nil
}

func (r *memIdentityRepo) FindByHandle(_ context.Context, handle string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ident := range r.identities {
		if ident.Handle == handle {
			clone := *ident
			return &clone, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *memIdentityRepo) RecordLogin(context.Context, string, time.Time) error { return nil }

type memTokenStore struct {
	mu    sync.Mutex
	token string
	has   bool
}

func (s *memTokenStore) Save(_ context.Context, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.has = true
	return nil
}

func (s *memTokenStore) Load(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.has, nil
}

func (s *memTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.has = false
	return nil
}

func testIdentity(t *testing.T, handle, password string) *domain.Identity {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.Identity{
		ID:           "id-" + handle,
		Handle:       handle,
		PasswordHash: string(hash),
		Role:         domain.RoleStaff,
		Branch:       "KPM",
		Active:       true,
	}
}

func TestProvider_SignInAndGetSession(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	tokens := &memTokenStore{}
	p := New(repo, tokens, "jwt-secret", time.Hour, zerolog.Nop())

	sess, err := p.SignIn(context.Background(), "asha", "secret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if sess.IdentityID != "id-asha" || sess.Token == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	restored, err := p.GetSession(context.Background())
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if restored == nil || restored.IdentityID != "id-asha" {
		t.Fatalf("restored session = %+v, want id-asha", restored)
	}
	if restored.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry on restored session")
	}
}

func TestProvider_SignIn_WrongPassword(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	p := New(repo, &memTokenStore{}, "jwt-secret", time.Hour, zerolog.Nop())

	if _, err := p.SignIn(context.Background(), "asha", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(context.Background(), "nobody", "secret"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown handle, got %v", err)
	}
}

func TestProvider_GetSession_ClearsGarbageToken(t *testing.T) {
	tokens := &memTokenStore{token: "not-a-jwt", has: true}
	p := New(newMemIdentityRepo(), tokens, "jwt-secret", time.Hour, zerolog.Nop())

	sess, err := p.GetSession(context.Background())
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if sess != nil {
		t.Fatalf("garbage token yielded a session: %+v", sess)
	}
	if _, has, _ := tokens.Load(context.Background()); has {
		t.Fatalf("garbage token must be cleared from the store")
	}
}

func TestProvider_GetSession_RejectsForeignSignature(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	tokens := &memTokenStore{}

	// Token minted under another secret must not restore.
	other := New(repo, tokens, "other-secret", time.Hour, zerolog.Nop())
	if _, err := other.SignIn(context.Background(), "asha", "secret"); err != nil {
		t.Fatalf("seeding foreign token failed: %v", err)
	}

	p := New(repo, tokens, "jwt-secret", time.Hour, zerolog.Nop())
	sess, err := p.GetSession(context.Background())
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if sess != nil {
		t.Fatalf("foreign token restored a session: %+v", sess)
	}
}

func TestProvider_SignOut(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	tokens := &memTokenStore{}
	p := New(repo, tokens, "jwt-secret", time.Hour, zerolog.Nop())

	if _, err := p.SignIn(context.Background(), "asha", "secret"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if sess, _ := p.GetSession(context.Background()); sess != nil {
		t.Fatalf("session survived sign-out: %+v", sess)
	}
}

func TestProvider_RefreshSession(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	tokens := &memTokenStore{}
	p := New(repo, tokens, "jwt-secret", time.Hour, zerolog.Nop())

	if _, err := p.RefreshSession(context.Background()); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated without a session, got %v", err)
	}

	if _, err := p.SignIn(context.Background(), "asha", "secret"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	sess, err := p.RefreshSession(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if sess.IdentityID != "id-asha" || sess.Token == "" {
		t.Fatalf("unexpected refreshed session: %+v", sess)
	}
}

func TestProvider_EventsEmittedOnSignInAndOut(t *testing.T) {
	repo := newMemIdentityRepo(testIdentity(t, "asha", "secret"))
	p := New(repo, &memTokenStore{}, "jwt-secret", time.Hour, zerolog.Nop())

	if _, err := p.SignIn(context.Background(), "asha", "secret"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}

	ev := <-p.Events()
	if ev.Kind != domain.AuthSignedIn || ev.IdentityID != "id-asha" {
		t.Fatalf("first event = %+v, want signed_in for id-asha", ev)
	}
	ev = <-p.Events()
	if ev.Kind != domain.AuthSignedOut {
		t.Fatalf("second event = %+v, want signed_out", ev)
	}
}
