package app

import "time"

// LiveSession describes one connected learner. It carries no quiz history.
type LiveSession struct {
	ID      string    `json:"id"`
	LevelID string    `json:"level"`
	Since   time.Time `json:"since"`
}

// SessionRegistry abstracts how live study sessions are tracked (in-memory, Redis, etc).
type SessionRegistry interface {
	Register(id, levelID string) LiveSession
	Get(id string) (LiveSession, bool)
	Release(id string)
	Active() int
}
