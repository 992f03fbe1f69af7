package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"game-arcade-system/models"
	"game-arcade-system/utils"
)

const (
	// sessionLifetime bounds how long an uncompleted session stays playable.
	sessionLifetime = 30 * time.Minute
	// completedRetention keeps completed sessions around long enough for
	// duplicate network retries to be recognized as AlreadyCompleted.
	completedRetention = 1 * time.Minute
	sweepInterval      = 1 * time.Minute
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrOwnerMismatch    = errors.New("session owner mismatch")
	ErrAlreadyCompleted = errors.New("session already completed")
)

// SessionStore owns the process-local table of play sessions. All state
// transitions happen under its lock; CompleteOnce is the single serialization
// point for completion events.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	now      func() time.Time
	done     chan struct{}
}

func NewSessionStore() *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Close stops the background sweeper.
func (s *SessionStore) Close() {
	close(s.done)
}

func (s *SessionStore) Create(userID, gameID string, chatID int64) *models.Session {
	now := s.now()
	sess := &models.Session{
		ID:        utils.NewSessionID(userID, gameID, now),
		UserID:    userID,
		GameID:    gameID,
		ChatID:    chatID,
		StartTime: now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(id)
}

func (s *SessionStore) lookupLocked(id string) (*models.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sess.Completed && s.now().Sub(sess.StartTime) > sessionLifetime {
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// CompleteOnce is the only mutating entry point after Create. Checks run in
// order: existence/expiry, ownership, not already completed. Exactly one call
// per session id can succeed; concurrent duplicates resolve under the store
// lock, never read-then-write.
func (s *SessionStore) CompleteOnce(id, userID string, score int64, stats map[string]int64) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		log.Printf("[SESSIONS] owner mismatch on %s: submitted by %s, owned by %s", id, userID, sess.UserID)
		return nil, ErrOwnerMismatch
	}
	if sess.Completed {
		return nil, ErrAlreadyCompleted
	}

	now := s.now()
	sess.Completed = true
	sess.EndTime = &now
	sess.Score = score
	sess.GameStats = stats
	return sess, nil
}

// reopen puts a session back into its pre-completion state. Used only by the
// coordinator when the durable store rejected the whole pipeline, so a client
// retry can land instead of bouncing off AlreadyCompleted.
func (s *SessionStore) reopen(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Completed = false
	sess.EndTime = nil
	sess.Score = 0
	sess.GameStats = nil
}

func (s *SessionStore) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.done:
			return
		}
	}
}

// sweepOnce drops completed sessions past their retention window and
// uncompleted sessions past their lifetime.
func (s *SessionStore) sweepOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if sess.Completed {
			if now.Sub(*sess.EndTime) > completedRetention {
				delete(s.sessions, id)
			}
		} else if now.Sub(sess.StartTime) > sessionLifetime {
			delete(s.sessions, id)
		}
	}
}
