package session

import (
	"context"
	"sync"
	"time"

	"github.com/fitlog/fitlog/internal/model"
)

// sweepThreshold is the store size at which Save drops expired entries.
const sweepThreshold = 1024

// MemoryStore keeps sessions in process memory.
// Used when no Redis is configured; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	session   model.Session
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

// SaveSession stores sess until it has been idle for ttl.
func (s *MemoryStore) SaveSession(_ context.Context, sess *model.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.sessions) >= sweepThreshold {
		s.sweepLocked(now)
	}

	s.sessions[sess.ID] = &memoryEntry{session: *sess, expiresAt: now.Add(ttl)}
	return nil
}

// LoadSession returns a copy of the session and extends its expiry by ttl.
func (s *MemoryStore) LoadSession(_ context.Context, id string, ttl time.Duration) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}

	now := s.now()
	if !now.Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}

	entry.expiresAt = now.Add(ttl)
	sess := entry.session
	return &sess, nil
}

// DeleteSession removes a session if present.
func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
