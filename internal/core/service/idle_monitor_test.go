package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubActivityStore struct {
	mu      sync.Mutex
	last    time.Time
	has     bool
	lastErr error
	touches int
	clears  int
}

func newStubActivityStore() *stubActivityStore {
	return &stubActivityStore{}
}

func (s *stubActivityStore) Touch(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = t
	s.has = true
	s.touches++
	return nil
}

func (s *stubActivityStore) Last(context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		return time.Time{}, false, s.lastErr
	}
	return s.last, s.has, nil
}

func (s *stubActivityStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = time.Time{}
	s.has = false
	s.clears++
	return nil
}

func (s *stubActivityStore) setLast(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = t
	s.has = true
}

func (s *stubActivityStore) touchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touches
}

func (s *stubActivityStore) cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears > 0
}

func waitExpired(t *testing.T, ch <-chan struct{}, within time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(within):
		t.Fatalf("idle logout did not fire within %v", within)
	}
}

func TestIdleMonitor_ExpiresAfterInactivity(t *testing.T) {
	store := newStubActivityStore()
	expired := make(chan struct{}, 1)
	m := NewIdleMonitor(30*time.Millisecond, time.Hour, store,
		func(context.Context) { expired <- struct{}{} }, zerolog.Nop())

	m.Start(context.Background())
	defer m.Stop()

	// Age the shared marker past the window so the fire path sees real idleness.
	store.setLast(time.Now().UTC().Add(-time.Minute))

	waitExpired(t, expired, time.Second)
}

func TestIdleMonitor_ActivityElsewhereDefersLogout(t *testing.T) {
	store := newStubActivityStore()
	expired := make(chan struct{}, 1)
	m := NewIdleMonitor(40*time.Millisecond, time.Hour, store,
		func(context.Context) { expired <- struct{}{} }, zerolog.Nop())

	m.Start(context.Background())
	defer m.Stop()

	// Another console instance keeps touching the shared marker; the local
	// timer must keep rescheduling instead of logging out.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			store.setLast(time.Now().UTC())
			time.Sleep(15 * time.Millisecond)
		}
	}()

	select {
	case <-expired:
		t.Fatalf("logged out despite fresh activity in the shared store")
	case <-done:
	}

	// Activity stops everywhere; now the logout must happen.
	waitExpired(t, expired, time.Second)
}

func TestIdleMonitor_StoreErrorKeepsSession(t *testing.T) {
	store := newStubActivityStore()
	store.lastErr = errors.New("redis down")
	expired := make(chan struct{}, 1)
	m := NewIdleMonitor(20*time.Millisecond, time.Hour, store,
		func(context.Context) { expired <- struct{}{} }, zerolog.Nop())

	m.Start(context.Background())
	defer m.Stop()

	select {
	case <-expired:
		t.Fatalf("logged out on an unreadable activity store; ambiguity must keep the session")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestIdleMonitor_StopDisarms(t *testing.T) {
	store := newStubActivityStore()
	expired := make(chan struct{}, 1)
	m := NewIdleMonitor(20*time.Millisecond, time.Hour, store,
		func(context.Context) { expired <- struct{}{} }, zerolog.Nop())

	m.Start(context.Background())
	store.setLast(time.Now().UTC().Add(-time.Minute))
	m.Stop()

	select {
	case <-expired:
		t.Fatalf("fired after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestIdleMonitor_TouchThrottlesWrites(t *testing.T) {
	store := newStubActivityStore()
	m := NewIdleMonitor(time.Hour, time.Hour, store, func(context.Context) {}, zerolog.Nop())

	m.Start(context.Background())
	defer m.Stop()

	for i := 0; i < 20; i++ {
		m.Touch(context.Background())
	}

	// Only the initial write from Start lands; every Touch inside the
	// throttle interval is suppressed.
	if got := store.touchCount(); got != 1 {
		t.Fatalf("expected 1 store write, got %d", got)
	}
}

func TestIdleMonitor_TouchIgnoredWhenStopped(t *testing.T) {
	store := newStubActivityStore()
	m := NewIdleMonitor(time.Hour, 0, store, func(context.Context) {}, zerolog.Nop())

	m.Touch(context.Background())
	if got := store.touchCount(); got != 0 {
		t.Fatalf("expected no writes before Start, got %d", got)
	}
}
