// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package identity

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/oops"
)

// RegisterInput carries the raw registration form fields. All fields
// arrive as strings; the registry owns parsing and validation.
type RegisterInput struct {
	ID            string
	Name          string
	Department    string
	Year          string
	Secret        string
	SecretConfirm string
}

// Registry validates and creates student accounts.
type Registry struct {
	accounts AccountRepository
}

// NewRegistry creates a Registry.
func NewRegistry(accounts AccountRepository) (*Registry, error) {
	if accounts == nil {
		return nil, oops.Code("IDENTITY_INVALID_DEPS").Errorf("accounts repository is required")
	}
	return &Registry{accounts: accounts}, nil
}

// Register validates the input, applies policy defaults, and persists a
// new account. Validation fails fast: no store call is made unless every
// rule passes. A duplicate id surfaces as an error wrapping ErrConflict,
// distinct from all validation failures.
func (r *Registry) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	id, year, err := validateRegisterInput(input)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:          id,
		DisplayName: input.Name,
		Department:  input.Department,
		Year:        year,
		Secret:      input.Secret,
		CreditLimit: DefaultCreditLimit,
		PointLimit:  DefaultPointLimit,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.accounts.Insert(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// validateRegisterInput checks the form fields in a fixed order so the
// first violated rule determines the user-facing message: missing
// fields, then password confirmation, then year range, then id shape.
func validateRegisterInput(input RegisterInput) (id int64, year int, err error) {
	if input.ID == "" || input.Name == "" || input.Department == "" ||
		input.Year == "" || input.Secret == "" || input.SecretConfirm == "" {
		return 0, 0, oops.Code("IDENTITY_MISSING_FIELD").Wrap(ErrMissingField)
	}

	if input.Secret != input.SecretConfirm {
		return 0, 0, oops.Code("IDENTITY_PASSWORD_MISMATCH").Wrap(ErrPasswordMismatch)
	}

	year, yearErr := strconv.Atoi(input.Year)
	if yearErr != nil || year < MinYear || year > MaxYear {
		return 0, 0, oops.Code("IDENTITY_INVALID_YEAR").
			With("year", input.Year).
			Wrap(ErrInvalidYear)
	}

	id, idErr := strconv.ParseInt(input.ID, 10, 64)
	if idErr != nil || id <= 0 {
		return 0, 0, oops.Code("IDENTITY_INVALID_ID").
			With("student_id", input.ID).
			Wrap(ErrInvalidID)
	}

	return id, year, nil
}
