// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package identity

import (
	"context"
	"errors"
	"strconv"

	"github.com/samber/oops"
)

// Verifier validates login attempts against stored account data.
type Verifier struct {
	accounts AccountRepository
}

// NewVerifier creates a Verifier.
func NewVerifier(accounts AccountRepository) (*Verifier, error) {
	if accounts == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPS").Errorf("accounts repository is required")
	}
	return &Verifier{accounts: accounts}, nil
}

// Login returns the account matching the id and secret, or nil when
// there is no match. An unknown id, a wrong secret, and a missing or
// malformed field all produce the same nil result: this layer never
// reveals which part of the credential was wrong. A non-nil error means
// the store itself failed, not that the credentials were rejected.
func (v *Verifier) Login(ctx context.Context, id, secret string) (*Account, error) {
	if id == "" || secret == "" {
		return nil, nil
	}

	studentID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || studentID <= 0 {
		return nil, nil
	}

	account, err := v.accounts.GetByCredentials(ctx, studentID, secret)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("IDENTITY_LOGIN_FAILED").
			With("operation", "get account by credentials").
			Wrap(err)
	}
	return account, nil
}
