package flow

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Sessions keeps open checkouts in memory. Abandoned sessions are simply
// dropped with the process; nothing needs undoing.
type Sessions struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	sessions map[string]*Session
}

func NewSessions(clock clockwork.Clock) *Sessions {
	return &Sessions{
		clock:    clock,
		sessions: make(map[string]*Session),
	}
}

func (s *Sessions) Create(cartID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := NewSession(uuid.NewString(), cartID, s.clock.Now())
	s.sessions[sess.ID] = sess
	return *sess
}

func (s *Sessions) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return *sess, nil
}

// Update applies fn to a working copy and commits it only when fn succeeds,
// so a rejected step leaves the session untouched.
func (s *Sessions) Update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	working := *sess
	if err := fn(&working); err != nil {
		return *sess, err
	}
	working.UpdatedAt = s.clock.Now()
	*sess = working
	return working, nil
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
