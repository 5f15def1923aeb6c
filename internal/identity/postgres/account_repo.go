// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package postgres implements the identity persistence ports on
// PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/coursebid/coursebid/internal/identity"
)

// querier is the subset of pgxpool.Pool the repository needs. Declared
// as an interface so pgxmock can stand in during tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements identity.AccountRepository using
// PostgreSQL. Each operation is a single statement; the pool owns
// acquire and release, so every exit path frees its connection.
type AccountRepository struct {
	pool querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool querier) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// ExistsByID reports whether an account with the student id is stored.
func (r *AccountRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").
			With("operation", "check account exists").
			With("student_id", id).
			Wrap(err)
	}
	return exists, nil
}

// Insert persists a new account. The primary-key constraint on id is
// the authority on uniqueness: a concurrent duplicate insert loses here
// even if an earlier ExistsByID check passed.
func (r *AccountRepository) Insert(ctx context.Context, account *identity.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, display_name, department, year, secret, credit_limit, point_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		account.ID,
		account.DisplayName,
		account.Department,
		account.Year,
		account.Secret,
		account.CreditLimit,
		account.PointLimit,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("IDENTITY_CONFLICT").
				With("student_id", account.ID).
				Wrap(identity.ErrConflict)
		}
		return oops.Code("ACCOUNT_INSERT_FAILED").
			With("operation", "insert account").
			With("student_id", account.ID).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by student id.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*identity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at
		FROM accounts
		WHERE id = $1
	`, id)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("student_id", id).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_ID_FAILED").
			With("operation", "get account by id").
			With("student_id", id).
			Wrap(err)
	}
	return account, nil
}

// GetByCredentials retrieves an account only on an exact id and secret
// match. A missing id and a wrong secret produce the same not-found
// result so callers cannot tell which part was wrong.
func (r *AccountRepository) GetByCredentials(ctx context.Context, id int64, secret string) (*identity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at
		FROM accounts
		WHERE id = $1 AND secret = $2
	`, id, secret)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_CREDENTIALS_FAILED").
			With("operation", "get account by credentials").
			With("student_id", id).
			Wrap(err)
	}
	return account, nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*identity.Account, error) {
	var (
		id          int64
		displayName string
		department  string
		year        int
		secret      string
		creditLimit int
		pointLimit  int
		createdAt   time.Time
	)

	err := row.Scan(&id, &displayName, &department, &year, &secret, &creditLimit, &pointLimit, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	return &identity.Account{
		ID:          id,
		DisplayName: displayName,
		Department:  department,
		Year:        year,
		Secret:      secret,
		CreditLimit: creditLimit,
		PointLimit:  pointLimit,
		CreatedAt:   createdAt,
	}, nil
}

// Compile-time interface check.
var _ identity.AccountRepository = (*AccountRepository)(nil)
