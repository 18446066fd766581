package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by a SessionStore when the session is unknown, expired or revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side login sessions. Deleting a session revokes every token that points to it.
type SessionStore interface {
	// Create opens a session for userID that expires after ttl and returns its id.
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// Load returns the owner of the session, or ErrSessionNotFound.
	Load(ctx context.Context, sessionID string) (int64, error)
	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}

func newSessionID() string {
	return uuid.NewString()
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

// MemorySessionStore is a process-local SessionStore, used for single-instance deployments and tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession), now: time.Now}
}

func (m *MemorySessionStore) Create(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	id := newSessionID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.sessions[id] = memorySession{userID: userID, expiresAt: m.now().Add(ttl)}
	return id, nil
}

func (m *MemorySessionStore) Load(_ context.Context, sessionID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if !m.now().Before(s.expiresAt) {
		delete(m.sessions, sessionID)
		return 0, ErrSessionNotFound
	}
	return s.userID, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// sweep drops expired sessions. Callers hold m.mu.
func (m *MemorySessionStore) sweep() {
	now := m.now()
	for id, s := range m.sessions {
		if !now.Before(s.expiresAt) {
			delete(m.sessions, id)
		}
	}
}
