// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

// Package redis implements the session token store on a shared Redis
// instance, for deployments running more than one service replica.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/coursebid/coursebid/internal/session"
)

const keyPrefix = "session:"

// Store is a session.TokenStore backed by Redis. Session expiry maps
// onto Redis key TTLs, so expired sessions vanish without a sweeper.
type Store struct {
	client *redis.Client
}

// NewStore creates a Store over an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(tokenHash string) string {
	return keyPrefix + tokenHash
}

// Put stores a session under its token hash. Sessions carrying an
// expiry get a matching key TTL; sessions without one persist until
// deleted.
func (s *Store) Put(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return oops.Code("SESSION_ENCODE_FAILED").
			With("operation", "marshal session").
			Wrap(err)
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			// Already expired; storing it would resolve to nothing anyway.
			return nil
		}
	}

	if err := s.client.Set(ctx, key(sess.TokenHash), data, ttl).Err(); err != nil {
		return oops.Code("SESSION_STORE_FAILED").
			With("operation", "redis set").
			Wrap(err)
	}
	return nil
}

// Get retrieves a session by token hash, or nil when absent.
func (s *Store) Get(ctx context.Context, tokenHash string) (*session.Session, error) {
	val, err := s.client.Get(ctx, key(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("SESSION_FETCH_FAILED").
			With("operation", "redis get").
			Wrap(err)
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, oops.Code("SESSION_DECODE_FAILED").
			With("operation", "unmarshal session").
			Wrap(err)
	}
	return &sess, nil
}

// Delete removes a session by token hash; absent hashes are a no-op.
func (s *Store) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, key(tokenHash)).Err(); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "redis del").
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ session.TokenStore = (*Store)(nil)
