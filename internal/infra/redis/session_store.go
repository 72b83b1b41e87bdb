package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"nandoku-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRegistry.
// Notes:
//   - Live sessions are kept in a local map; each one belongs to a
//     connection of this process.
//   - Redis holds a liveness marker per session, carrying the level id, so
//     other instances can see who is studying what.
//   - Markers expire after ttl; nothing about the quiz itself is written.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[string]app.LiveSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]app.LiveSession),
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), levelID, s.ttl).Err()
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
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) key(id string) string {
	return "study:session:" + id
}
