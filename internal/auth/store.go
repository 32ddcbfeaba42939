package auth

import "sync"

// SessionStore holds the current session for components that issue backend requests.
// The sync services renew it, the API client reads it.
type SessionStore struct {
	mu      sync.RWMutex
	session Session
}

func NewSessionStore(initial Session) *SessionStore {
	return &SessionStore{session: initial}
}

func (s *SessionStore) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionStore) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}
