// Package store holds transform results between the upload request that
// produced them and the download requests that fetch them. Entries are
// delivery handles, not persistence: each one expires after a short TTL
// and the store caps how many it keeps at once.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a handle is unknown or already expired.
var ErrNotFound = errors.New("result not found or expired")

// Result is one statement's encoded output workbooks.
type Result struct {
	Header []byte
	Lines  []byte
}

type entry struct {
	result  Result
	expires time.Time
}

// Store is a bounded, TTL-evicting in-memory result store. Safe for
// concurrent use.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a Store. ttl bounds how long a result stays retrievable;
// maxEntries bounds memory (oldest-expiring entries are dropped first
// when the cap is hit).
func New(ttl time.Duration, maxEntries int) *Store {
	return &Store{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores a result and returns its handle.
func (s *Store) Put(r Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}

	id := uuid.NewString()
	s.entries[id] = entry{result: r, expires: now.Add(s.ttl)}
	return id
}

// Get fetches a stored result by handle.
func (s *Store) Get(id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || s.now().After(e.expires) {
		delete(s.entries, id)
		return Result{}, ErrNotFound
	}
	return e.result, nil
}

// Len reports how many live entries the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.entries)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.expires.Before(oldest) {
			oldestID = id
			oldest = e.expires
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
