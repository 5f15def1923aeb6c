// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package session

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Manager owns the token lifecycle: a token is nonexistent, then ACTIVE
// from Create until Revoke, then gone for good. Revoked and never-issued
// tokens are indistinguishable to Resolve.
type Manager struct {
	store TokenStore
	ttl   time.Duration // zero disables expiry
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL bounds session lifetime. The default is no expiry; revocation
// is then the only way a session ends.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// NewManager creates a Manager over the given store.
func NewManager(store TokenStore, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, oops.Code("SESSION_INVALID_DEPS").Errorf("token store is required")
	}
	m := &Manager{store: store}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create issues a fresh token bound to the account id. Multiple
// concurrent sessions per account are permitted.
func (m *Manager) Create(ctx context.Context, accountID int64) (string, error) {
	token, tokenHash, err := GenerateToken()
	if err != nil {
		return "", err
	}

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = time.Now().UTC().Add(m.ttl)
	}

	s, err := New(accountID, tokenHash, expiresAt)
	if err != nil {
		return "", err
	}

	if err := m.store.Put(ctx, s); err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}
	return token, nil
}

// Resolve returns the account id bound to an ACTIVE token. Unknown,
// malformed, revoked, and expired tokens all yield ok=false; err is
// reserved for store failures.
func (m *Manager) Resolve(ctx context.Context, token string) (accountID int64, ok bool, err error) {
	if token == "" {
		return 0, false, nil
	}

	s, err := m.store.Get(ctx, HashToken(token))
	if err != nil {
		return 0, false, oops.Code("SESSION_RESOLVE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}
	if s == nil || s.IsExpired() {
		return 0, false, nil
	}
	return s.AccountID, true, nil
}

// Revoke ends the session for a token. Idempotent: revoking an unknown
// or already-revoked token is a no-op.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, HashToken(token)); err != nil {
		return oops.Code("SESSION_REVOKE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}
