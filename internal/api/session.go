package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

const (
	sessionTTL           = 2 * time.Hour
	sessionSweepInterval = 10 * time.Minute

	// maxHistoryMessages bounds per-session memory; the oldest turns are
	// dropped first.
	maxHistoryMessages = 40
)

// ErrSessionNotFound indicates an unknown or expired session ID.
var ErrSessionNotFound = errors.New("session not found")

type conversation struct {
	history  []*ai.Message
	lastUsed time.Time
}

// sessionStore keeps conversation history in memory, keyed by session UUID.
// History survives for sessionTTL after the last turn.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*conversation
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*conversation)}
}

// create registers a fresh session and returns its ID.
func (s *sessionStore) create() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &conversation{lastUsed: time.Now()}
	s.mu.Unlock()
	return id
}

// history returns a snapshot of the session's messages.
func (s *sessionStore) history(id uuid.UUID) ([]*ai.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	c.lastUsed = time.Now()

	snapshot := make([]*ai.Message, len(c.history))
	copy(snapshot, c.history)
	return snapshot, nil
}

// append adds messages to the session, trimming the oldest ones past the
// history cap.
func (s *sessionStore) append(id uuid.UUID, msgs []*ai.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	c.history = append(c.history, msgs...)
	if len(c.history) > maxHistoryMessages {
		c.history = c.history[len(c.history)-maxHistoryMessages:]
	}
	c.lastUsed = time.Now()
	return nil
}

// sweep drops sessions idle longer than ttl and reports how many went.
func (s *sessionStore) sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-ttl)
	for id, c := range s.sessions {
		if c.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// runSweeper expires idle sessions until ctx is canceled.
func (s *sessionStore) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(sessionTTL)
		}
	}
}
