// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursebid/coursebid/internal/identity"
)

func testAccount() *identity.Account {
	return &identity.Account{
		ID:          99999999,
		DisplayName: "Test Student",
		Department:  "Computer Science",
		Year:        3,
		Secret:      "test1234",
		CreditLimit: 18,
		PointLimit:  90,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func accountColumns() []string {
	return []string{"id", "display_name", "department", "year", "secret", "credit_limit", "point_limit", "created_at"}
}

func TestAccountRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := testAccount()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID, account.DisplayName, account.Department, account.Year,
				account.Secret, account.CreditLimit, account.PointLimit, account.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewAccountRepository(mock)
		require.NoError(t, repo.Insert(ctx, account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id maps unique violation to conflict", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := testAccount()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID, account.DisplayName, account.Department, account.Year,
				account.Secret, account.CreditLimit, account.PointLimit, account.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_pkey"})

		repo := NewAccountRepository(mock)
		err = repo.Insert(ctx, account)
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database errors are not conflicts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		account := testAccount()
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(account.ID, account.DisplayName, account.Department, account.Year,
				account.Secret, account.CreditLimit, account.PointLimit, account.CreatedAt).
			WillReturnError(errors.New("connection refused"))

		repo := NewAccountRepository(mock)
		err = repo.Insert(ctx, account)
		require.Error(t, err)
		assert.NotErrorIs(t, err, identity.ErrConflict)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_ExistsByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      bool
		wantErr   bool
	}{
		{
			name: "account exists",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(99999999)).
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
			},
			want: true,
		},
		{
			name: "account does not exist",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(99999999)).
					WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
			},
			want: false,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(int64(99999999)).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewAccountRepository(mock)
			got, err := repo.ExistsByID(ctx, 99999999)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored account", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		want := testAccount()
		mock.ExpectQuery(`SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at FROM accounts`).
			WithArgs(want.ID).
			WillReturnRows(pgxmock.NewRows(accountColumns()).
				AddRow(want.ID, want.DisplayName, want.Department, want.Year,
					want.Secret, want.CreditLimit, want.PointLimit, want.CreatedAt))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent account wraps not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at FROM accounts`).
			WithArgs(int64(11111111)).
			WillReturnRows(pgxmock.NewRows(accountColumns()))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByID(ctx, 11111111)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("exact match returns the account", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		want := testAccount()
		mock.ExpectQuery(`SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at FROM accounts`).
			WithArgs(want.ID, want.Secret).
			WillReturnRows(pgxmock.NewRows(accountColumns()).
				AddRow(want.ID, want.DisplayName, want.Department, want.Year,
					want.Secret, want.CreditLimit, want.PointLimit, want.CreatedAt))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByCredentials(ctx, want.ID, want.Secret)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mismatch wraps not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, display_name, department, year, secret, credit_limit, point_limit, created_at FROM accounts`).
			WithArgs(int64(99999999), "wrongpassword123").
			WillReturnRows(pgxmock.NewRows(accountColumns()))

		repo := NewAccountRepository(mock)
		got, err := repo.GetByCredentials(ctx, 99999999, "wrongpassword123")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, identity.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
