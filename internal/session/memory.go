package session

import (
	"context"
	"strings"
	"sync"
)

// MemoryRegistry keeps sessions for the lifetime of the process.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns a copy of the stored session so callers cannot mutate
// registry state without going through SetField.
func (r *MemoryRegistry) GetOrCreate(ctx context.Context, userID string) (*Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUserID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID}
		r.sessions[userID] = sess
	}
	out := *sess
	return &out, nil
}

// SetField records value on the session, creating the session if needed.
func (r *MemoryRegistry) SetField(ctx context.Context, userID string, field Field, value string) error {
	if err := checkArgs(userID, field); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID}
		r.sessions[userID] = sess
	}
	sess.set(field, value)
	return nil
}

// Len returns the number of known sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
