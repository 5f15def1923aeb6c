// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package identity

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with an existing
// student id. The storage layer's uniqueness constraint is the
// authority; repositories wrap this sentinel so callers can
// distinguish duplicates from other storage failures with errors.Is.
var ErrConflict = errors.New("student id already registered")

// Validation sentinels. Each registration failure wraps exactly one of
// these so the web layer can render the matching user-facing message.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidYear      = errors.New("year must be between 1 and 4")
	ErrInvalidID        = errors.New("student id must be a positive number")
)
