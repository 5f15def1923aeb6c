// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package session

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session is one live authenticated binding between a token and an
// account id. The account id is fixed at creation for the life of the
// session.
type Session struct {
	ID        ulid.ULID
	AccountID int64
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time // zero when sessions do not expire
}

// New creates a validated Session instance. A zero expiry means the
// session never expires on its own and lives until revoked.
func New(accountID int64, tokenHash string, expiresAt time.Time) (*Session, error) {
	if accountID <= 0 {
		return nil, oops.Code("SESSION_INVALID_ACCOUNT").Errorf("account id must be positive")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}

	return &Session{
		ID:        ulid.Make(),
		AccountID: accountID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}, nil
}

// IsExpiredAt reports whether the session would be expired at the given
// time. Sessions without an expiry never expire.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !s.ExpiresAt.IsZero() && t.After(s.ExpiresAt)
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// TokenStore persists the token-hash to session mapping. The Manager is
// the only component that touches a store; implementations may be
// in-process (memory) or shared (Redis) but must be linearizable per
// token.
type TokenStore interface {
	// Put stores a session under its token hash.
	Put(ctx context.Context, s *Session) error

	// Get retrieves a session by token hash. Returns (nil, nil) when
	// no session is stored under the hash.
	Get(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by token hash. Deleting an absent hash
	// is a no-op, not an error.
	Delete(ctx context.Context, tokenHash string) error
}
