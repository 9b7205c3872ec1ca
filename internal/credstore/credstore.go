// Package credstore persists the opaque platform auth token, username, and
// tenant across two mutually exclusive storage scopes: durable (survives
// process restarts) and ephemeral (process lifetime only). The scope is chosen
// at login time; at most one auth token exists across both scopes at any
// instant.
package credstore

import "sync"

// Keys used inside a scope. All values are strings; the profile value is a
// JSON-serialized user profile and lives only in the durable scope, as does
// the tenant override.
const (
	KeyAuthToken = "authToken"
	KeyUsername  = "username"
	KeyTenant    = "tenant"
	KeyProfile   = "userProfile"
)

// ScopeKind names one of the two storage scopes.
type ScopeKind int

const (
	Durable ScopeKind = iota
	Ephemeral
)

// Scope is a single key/value credential backend. Implementations must treat
// a missing key as (_, false), never as an error.
type Scope interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Credential is the record written by a successful login.
type Credential struct {
	Token    string
	Username string
}

// Store composes the durable and ephemeral scopes behind one mutex so that
// clear-then-write sequences during login are never observed half done by a
// concurrent reader.
type Store struct {
	mu        sync.RWMutex
	durable   Scope
	ephemeral Scope
}

// New builds a Store over the given backends.
func New(durable, ephemeral Scope) *Store {
	return &Store{durable: durable, ephemeral: ephemeral}
}

// Read returns the value for key, checking the durable scope first and
// falling back to the ephemeral one. It never fails; absence in both scopes
// is (_, false).
func (s *Store) Read(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.durable.Get(key); ok {
		return v, true
	}
	return s.ephemeral.Get(key)
}

// Write stores key=value in the named scope only.
func (s *Store) Write(kind ScopeKind, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope(kind).Set(key, value)
}

// ClearAll removes the credential keys from both scopes. Idempotent; safe to
// call when nothing is stored.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// HasCredential reports whether an auth token is present in either scope.
func (s *Store) HasCredential() bool {
	_, ok := s.Read(KeyAuthToken)
	return ok
}

// SetCredential clears both scopes and writes the credential to the selected
// one, all under a single lock. This is the only way a token enters the
// store, which keeps the at-most-one-token invariant by construction.
func (s *Store) SetCredential(kind ScopeKind, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	sc := s.scope(kind)
	if err := sc.Set(KeyAuthToken, cred.Token); err != nil {
		return err
	}
	return sc.Set(KeyUsername, cred.Username)
}

// Token returns the stored auth token, if any.
func (s *Store) Token() (string, bool) {
	return s.Read(KeyAuthToken)
}

// Tenant returns the durable-scope tenant override, if any. The ephemeral
// scope never holds a tenant.
func (s *Store) Tenant() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durable.Get(KeyTenant)
}

func (s *Store) scope(kind ScopeKind) Scope {
	if kind == Durable {
		return s.durable
	}
	return s.ephemeral
}

func (s *Store) clearLocked() {
	for _, key := range []string{KeyAuthToken, KeyUsername, KeyTenant, KeyProfile} {
		_ = s.durable.Delete(key)
		_ = s.ephemeral.Delete(key)
	}
}
