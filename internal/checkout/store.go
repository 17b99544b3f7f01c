package checkout

import (
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// Store holds in-flight checkout sessions in memory. Sessions live for the
// duration of a visit; nothing here survives a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a finished session. Callers are not required to clean up;
// abandoned sessions simply stay until the process exits.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
