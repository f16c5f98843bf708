package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

type stubLifecycle struct {
	loginFn   func(ctx context.Context, handle, secret string) (*domain.Identity, string, error)
	refreshFn func(ctx context.Context) (*domain.Identity, string, error)
	logouts   int
}

func (s *stubLifecycle) Login(ctx context.Context, handle, secret string) (*domain.Identity, string, error) {
	return s.loginFn(ctx, handle, secret)
}

func (s *stubLifecycle) Logout(context.Context) { s.logouts++ }

func (s *stubLifecycle) RefreshSession(ctx context.Context) (*domain.Identity, string, error) {
	if s.refreshFn == nil {
		return nil, "", domain.ErrNotAuthenticated
	}
	return s.refreshFn(ctx)
}

type stubSnapshot struct {
	identity *domain.Identity
}

func (s *stubSnapshot) Identity() *domain.Identity { return s.identity }
func (s *stubSnapshot) Loading() bool              { return false }
func (s *stubSnapshot) Authenticated() bool        { return s.identity != nil }

type stubMonitor struct {
	mu     sync.Mutex
	starts int
	stops  int
}

func (m *stubMonitor) Start(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
}

func (m *stubMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func newAuthTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	ident := &domain.Identity{ID: "id-asha", Handle: "asha", Role: domain.RoleStaff, Branch: "KPM", Active: true}
	lifecycle := &stubLifecycle{
		loginFn: func(_ context.Context, handle, secret string) (*domain.Identity, string, error) {
			if handle != "asha" || secret != "secret" {
				t.Fatalf("unexpected credentials: %s/%s", handle, secret)
			}
			return ident, "signed-token", nil
		},
	}
	monitor := &stubMonitor{}
	h := NewAuthHandler(lifecycle, &stubSnapshot{}, monitor)

	c, rec := newAuthTestContext(t, http.MethodPost, "/auth/login", `{"handle":"asha","password":"secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Fatalf("token = %q, want signed-token", resp.Token)
	}
	if resp.Identity == nil || resp.Identity.Handle != "asha" {
		t.Fatalf("identity = %+v", resp.Identity)
	}
	if monitor.starts != 1 {
		t.Fatalf("idle monitor starts = %d, want 1", monitor.starts)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	lifecycle := &stubLifecycle{
		loginFn: func(context.Context, string, string) (*domain.Identity, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	monitor := &stubMonitor{}
	h := NewAuthHandler(lifecycle, &stubSnapshot{}, monitor)

	c, _ := newAuthTestContext(t, http.MethodPost, "/auth/login", `{"handle":"asha","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if monitor.starts != 0 {
		t.Fatalf("idle monitor must not start on failed login")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubLifecycle{}, &stubSnapshot{}, &stubMonitor{})

	c, _ := newAuthTestContext(t, http.MethodPost, "/auth/login", `{"handle":"asha"}`)
	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %v", err)
	}
}

func TestAuthHandler_Logout_StopsMonitor(t *testing.T) {
	lifecycle := &stubLifecycle{}
	monitor := &stubMonitor{}
	h := NewAuthHandler(lifecycle, &stubSnapshot{}, monitor)

	c, rec := newAuthTestContext(t, http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if lifecycle.logouts != 1 {
		t.Fatalf("logouts = %d, want 1", lifecycle.logouts)
	}
	if monitor.stops != 1 {
		t.Fatalf("monitor stops = %d, want 1", monitor.stops)
	}
}

func TestAuthHandler_Refresh_FailureStopsMonitor(t *testing.T) {
	lifecycle := &stubLifecycle{
		refreshFn: func(context.Context) (*domain.Identity, string, error) {
			return nil, "", domain.ErrNotAuthenticated
		},
	}
	monitor := &stubMonitor{}
	h := NewAuthHandler(lifecycle, &stubSnapshot{}, monitor)

	c, _ := newAuthTestContext(t, http.MethodPost, "/auth/refresh", "")
	if err := h.Refresh(c); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if monitor.stops != 1 {
		t.Fatalf("monitor stops = %d, want 1", monitor.stops)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	ident := &domain.Identity{ID: "id-asha", Handle: "asha", Active: true}
	h := NewAuthHandler(&stubLifecycle{}, &stubSnapshot{identity: ident}, &stubMonitor{})

	c, rec := newAuthTestContext(t, http.MethodGet, "/auth/session", "")
	if err := h.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	h = NewAuthHandler(&stubLifecycle{}, &stubSnapshot{}, &stubMonitor{})
	c, _ = newAuthTestContext(t, http.MethodGet, "/auth/session", "")
	if err := h.Session(c); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated for empty snapshot, got %v", err)
	}
}
