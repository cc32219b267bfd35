// Package store holds the transient hand-off slot for normalized drafts.
// The slot is overwritten, never appended, and carries no schema
// versioning; it exists only so a manual-completion UI can pick the draft
// up.
package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/subwatchhq/subwatch/internal/model"
)

const pendingKey = "pendingSubscription"

// PendingStore is the single-slot draft hand-off
type PendingStore struct {
	cache *gocache.Cache
}

// NewPendingStore creates a pending store. Entries expire after ttl; zero
// means they never expire.
func NewPendingStore(ttl time.Duration) *PendingStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &PendingStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Put overwrites the pending draft
func (s *PendingStore) Put(draft model.NormalizedDraft) {
	s.cache.Set(pendingKey, draft, gocache.DefaultExpiration)
}

// Get returns the pending draft, if any
func (s *PendingStore) Get() (model.NormalizedDraft, bool) {
	v, found := s.cache.Get(pendingKey)
	if !found {
		return model.NormalizedDraft{}, false
	}
	draft, ok := v.(model.NormalizedDraft)
	return draft, ok
}

// Clear drops the pending draft
func (s *PendingStore) Clear() {
	s.cache.Delete(pendingKey)
}
