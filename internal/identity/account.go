// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package identity

import (
	"context"
	"time"
)

// Policy defaults assigned at registration. Callers never supply these;
// the registry stamps them on every new account.
const (
	DefaultCreditLimit = 18
	DefaultPointLimit  = 90
)

// Year bounds for enrolled students.
const (
	MinYear = 1
	MaxYear = 4
)

// Account represents one registered student identity.
// The student id is caller-supplied and immutable once created.
type Account struct {
	ID          int64
	DisplayName string
	Department  string
	Year        int
	Secret      string
	CreditLimit int
	PointLimit  int
	CreatedAt   time.Time
}

// AccountRepository manages account persistence.
//
// Insert is the single authority on id uniqueness: even when a caller
// pre-checks ExistsByID, the insert itself must reject duplicates
// atomically (a uniqueness constraint, not application-level
// check-then-act).
type AccountRepository interface {
	// ExistsByID reports whether an account with the id is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Insert persists a new account. Returns an error wrapping
	// ErrConflict when the id is already taken.
	Insert(ctx context.Context, account *Account) error

	// GetByID retrieves an account by student id. Returns an error
	// wrapping ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (*Account, error)

	// GetByCredentials retrieves an account only when the id exists
	// and the secret matches exactly. Any mismatch, including an
	// unknown id or empty secret, wraps ErrNotFound.
	GetByCredentials(ctx context.Context, id int64, secret string) (*Account, error)
}
