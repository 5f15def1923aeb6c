// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

//go:build integration

package store_test

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coursebid/coursebid/internal/identity"
	idpostgres "github.com/coursebid/coursebid/internal/identity/postgres"
	"github.com/coursebid/coursebid/internal/store"
)

// setupPostgres starts a PostgreSQL container, applies the schema, and
// returns a connected pool.
func setupPostgres() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("coursebid_test"),
		tcpostgres.WithUsername("coursebid"),
		tcpostgres.WithPassword("coursebid"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.Connect(ctx, connStr, slog.Default())
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}
	return pool, cleanup, nil
}

var _ = Describe("AccountRepository", func() {
	var pool *pgxpool.Pool
	var cleanup func()
	var repo *idpostgres.AccountRepository

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgres()
		Expect(err).NotTo(HaveOccurred())
		repo = idpostgres.NewAccountRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	newAccount := func(id int64) *identity.Account {
		return &identity.Account{
			ID:          id,
			DisplayName: "Test Student",
			Department:  "Computer Science",
			Year:        3,
			Secret:      "test1234",
			CreditLimit: identity.DefaultCreditLimit,
			PointLimit:  identity.DefaultPointLimit,
			CreatedAt:   time.Now().UTC(),
		}
	}

	Describe("Insert", func() {
		It("persists an account", func() {
			ctx := context.Background()
			Expect(repo.Insert(ctx, newAccount(99999999))).To(Succeed())

			got, err := repo.GetByID(ctx, 99999999)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.DisplayName).To(Equal("Test Student"))
			Expect(got.Year).To(Equal(3))
		})

		It("rejects a duplicate id with ErrConflict", func() {
			ctx := context.Background()
			Expect(repo.Insert(ctx, newAccount(99999999))).To(Succeed())

			err := repo.Insert(ctx, newAccount(99999999))
			Expect(err).To(MatchError(identity.ErrConflict))
		})
	})

	Describe("GetByCredentials", func() {
		BeforeEach(func() {
			Expect(repo.Insert(context.Background(), newAccount(99999999))).To(Succeed())
		})

		It("returns the account for matching credentials", func() {
			got, err := repo.GetByCredentials(context.Background(), 99999999, "test1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(int64(99999999)))
		})

		It("returns ErrNotFound for a wrong secret", func() {
			_, err := repo.GetByCredentials(context.Background(), 99999999, "wrong")
			Expect(err).To(MatchError(identity.ErrNotFound))
		})

		It("returns ErrNotFound for an unknown id", func() {
			_, err := repo.GetByCredentials(context.Background(), 11111111, "test1234")
			Expect(err).To(MatchError(identity.ErrNotFound))
		})
	})

	Describe("ExistsByID", func() {
		It("reports presence and absence", func() {
			ctx := context.Background()
			Expect(repo.Insert(ctx, newAccount(99999999))).To(Succeed())

			exists, err := repo.ExistsByID(ctx, 99999999)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.ExistsByID(ctx, 11111111)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
