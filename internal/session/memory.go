// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process TokenStore. It is created once at
// startup and owned exclusively by a Manager; nothing else mutates it.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Put stores a session under its token hash.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.TokenHash] = *s
	return nil
}

// Get retrieves a session by token hash, or nil when absent.
func (m *MemoryStore) Get(_ context.Context, tokenHash string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Delete removes a session by token hash; absent hashes are a no-op.
func (m *MemoryStore) Delete(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Compile-time interface check.
var _ TokenStore = (*MemoryStore)(nil)
