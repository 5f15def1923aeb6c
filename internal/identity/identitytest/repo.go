// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package identitytest provides test doubles for the identity ports.
package identitytest

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/coursebid/coursebid/internal/identity"
)

// MemoryRepository is an in-memory identity.AccountRepository with the
// same conflict semantics as the PostgreSQL adapter: Insert is atomic
// with respect to concurrent duplicate ids.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[int64]identity.Account

	// FailWith, when set, is returned by every operation. Lets tests
	// exercise storage-failure paths.
	FailWith error
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[int64]identity.Account)}
}

// ExistsByID reports whether an account with the id is stored.
func (r *MemoryRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.accounts[id]
	return ok, nil
}

// Insert stores the account, rejecting duplicate ids with ErrConflict.
func (r *MemoryRepository) Insert(_ context.Context, account *identity.Account) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return oops.Code("IDENTITY_CONFLICT").
			With("student_id", account.ID).
			Wrap(identity.ErrConflict)
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetByID retrieves an account by id.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*identity.Account, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("student_id", id).
			Wrap(identity.ErrNotFound)
	}
	return &account, nil
}

// GetByCredentials retrieves an account only on an exact id and secret
// match.
func (r *MemoryRepository) GetByCredentials(_ context.Context, id int64, secret string) (*identity.Account, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.Secret != secret {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(identity.ErrNotFound)
	}
	return &account, nil
}

// Compile-time interface check.
var _ identity.AccountRepository = (*MemoryRepository)(nil)
