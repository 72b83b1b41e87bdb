package memory

import (
	"sync"
	"time"

	"nandoku-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRegistry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]app.LiveSession
	clock    func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]app.LiveSession),
		clock:    time.Now,
	}
}

func (s *SessionStore) Register(id, levelID string) app.LiveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.sessions[id]; ok {
		return live
	}
	live := app.LiveSession{ID: id, LevelID: levelID, Since: s.clock()}
	s.sessions[id] = live
	return live
}

func (s *SessionStore) Get(id string) (app.LiveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	return live, ok
}

func (s *SessionStore) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
