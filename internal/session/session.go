// Package session holds per-user, request-scoped presentation state: the
// current recommendation list and pending informational notices.
//
// The recommendation pipeline writes here; the display layer reads on next
// render. Each user's slot is independent, so concurrent requests for
// different users never contend on data, only on the map lock.
package session

import (
	"sync"

	"github.com/chriscorrea/cadence/internal/catalog"
)

// Store is the session state interface the recommendation core writes into.
type Store interface {
	// SetRecommendations replaces the user's stored recommendation list.
	SetRecommendations(user string, recs []catalog.Record)
	// Recommendations returns the user's stored list, or nil.
	Recommendations(user string) []catalog.Record
	// ClearRecommendations drops any stored list for the user.
	ClearRecommendations(user string)
	// Notify queues a user-visible informational message.
	Notify(user, message string)
	// Notices drains and returns the user's queued messages.
	Notices(user string) []string
}

// MemoryStore is an in-process Store implementation, safe for concurrent
// use.
type MemoryStore struct {
	mu      sync.RWMutex
	recs    map[string][]catalog.Record
	notices map[string][]string
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recs:    make(map[string][]catalog.Record),
		notices: make(map[string][]string),
	}
}

// SetRecommendations replaces the user's stored recommendation list.
func (m *MemoryStore) SetRecommendations(user string, recs []catalog.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[user] = recs
}

// Recommendations returns the user's stored list, or nil if none is stored.
func (m *MemoryStore) Recommendations(user string) []catalog.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recs[user]
}

// ClearRecommendations drops any stored list for the user.
func (m *MemoryStore) ClearRecommendations(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, user)
}

// Notify queues a user-visible informational message.
func (m *MemoryStore) Notify(user, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices[user] = append(m.notices[user], message)
}

// Notices drains and returns the user's queued messages in arrival order.
func (m *MemoryStore) Notices(user string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.notices[user]
	delete(m.notices, user)
	return msgs
}
