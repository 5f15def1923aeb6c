// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package identity provides student account registration and
// credential verification for CourseBid.
//
// # Domain Types
//
// Account is the registered student identity. Accounts are created
// exclusively through Registry.Register, which validates the raw form
// input and stamps the policy defaults (credit and point limits).
// Direct struct initialization bypasses validation.
//
// # Services
//
//   - Registry - account registration with uniqueness enforcement
//   - Verifier - login checks that never leak which credential part failed
//
// Both depend only on the AccountRepository port; the PostgreSQL
// adapter lives in the postgres subpackage.
package identity
