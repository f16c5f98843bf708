// Package session holds the process-wide session state: who is logged in
// right now, and whether startup restoration is still in flight. The store
// replaces the usual "module-level current user" global with an explicit
// object owned by a single writer (the lifecycle controller); everything
// else reads through a Snapshot.
package session

import (
	"sync"

	"github.com/kpmroadlines/lr-console/internal/core/domain"
)

// Store is the single source of truth for the current identity.
type Store struct {
	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool
}

// NewStore returns a store in the Initializing state (loading, nobody
// authenticated).
func NewStore() *Store {
	return &Store{loading: true}
}

// Set installs the identity. A copy is taken so callers cannot mutate the
// stored value afterwards.
func (s *Store) Set(id *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.identity = nil
		return
	}
	clone := *id
	s.identity = &clone
}

// Clear drops the identity. Safe to call repeatedly.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}

// SetLoading flips the startup-restoration flag.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// Identity returns a copy of the current identity, or nil.
func (s *Store) Identity() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	clone := *s.identity
	return &clone
}

// Loading reports whether session restoration has not yet resolved.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether an identity is present. An inactive identity
// is never stored, so presence alone answers the question.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Snapshot is the read-only view handed to consumers that only need to ask
// "who is logged in".
type Snapshot interface {
	Identity() *domain.Identity
	Loading() bool
	Authenticated() bool
}

var _ Snapshot = (*Store)(nil)
