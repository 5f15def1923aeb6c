// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package session issues, resolves, and revokes opaque session tokens.
//
// The Manager is the exclusive owner of the token to account-id
// mapping. Tokens are 32 random bytes, hex-encoded; stores only ever
// see the SHA-256 hash of a token. The backing TokenStore is pluggable:
// the in-process MemoryStore is the default, the redis subpackage
// provides a shared store for multi-instance deployments.
package session
