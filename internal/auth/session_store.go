package auth

import (
	"context"
	"sync"
	"time"

	"github.com/yasinhessnawi1/inkwell-users/internal/models"
)

// SessionStore persists server-side sessions.
type SessionStore interface {
	// Get returns a copy of the session, or found=false when it is absent or expired.
	Get(ctx context.Context, id string) (session *models.Session, found bool, err error)

	// Save stores a copy of the session, replacing any previous version.
	Save(ctx context.Context, session *models.Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// PurgeExpired removes expired sessions and returns how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
}

// MemorySessionStore keeps sessions in process memory.
// Sessions are lost on restart, which logs every user out.
type MemorySessionStore struct {
	sessions map[string]*models.Session
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

// Get implements SessionStore.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || session.IsExpired(s.now()) {
		return nil, false, nil
	}
	return session.Clone(), true, nil
}

// Save implements SessionStore.
func (s *MemorySessionStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// PurgeExpired implements SessionStore.
func (s *MemorySessionStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
