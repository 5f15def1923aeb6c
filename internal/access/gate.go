// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package access converts a request's session token into an
// allow-or-deny decision for protected resources.
//
// The Gate is read-only: it resolves tokens through the session
// manager and never mutates account or session state. Deny is a normal
// outcome, not an error; callers route denied requests to the login
// surface without leaking protected content.
package access

import (
	"context"
	"log/slog"

	"github.com/coursebid/coursebid/pkg/errutil"
)

// Resolver maps an active session token to an account id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (accountID int64, ok bool, err error)
}

// Decision is the outcome of authorizing one request.
type Decision struct {
	Allowed   bool
	AccountID int64 // set only when Allowed
}

// Allow builds an allowing decision bound to an account.
func Allow(accountID int64) Decision {
	return Decision{Allowed: true, AccountID: accountID}
}

// Deny is the decision for absent, forged, expired, or revoked tokens.
var Deny = Decision{}

// Gate authorizes requests to protected resources.
type Gate struct {
	sessions Resolver
	logger   *slog.Logger
}

// NewGate creates a Gate over the session resolver.
func NewGate(sessions Resolver, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{sessions: sessions, logger: logger}
}

// Authorize decides whether the request carrying the token may reach
// protected content. Every failure mode collapses to Deny: a missing
// token, a token that never was, a revoked token, and a session-store
// failure all look identical to the caller. Store failures are logged
// but still deny; failing open is not an option here.
func (g *Gate) Authorize(ctx context.Context, token string) Decision {
	if token == "" {
		return Deny
	}

	accountID, ok, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		errutil.LogError(g.logger, "session resolution failed, denying request", err)
		return Deny
	}
	if !ok {
		return Deny
	}
	return Allow(accountID)
}
