package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"game-arcade-system/models"

	"gorm.io/gorm"
)

const (
	storeRetryAttempts = 3
	storeRetryBase     = 100 * time.Millisecond
)

// ErrStoreUnavailable wraps durable-store failures that survived the retry
// budget. The session is reopened first, so a client retry is safe.
var ErrStoreUnavailable = errors.New("durable store unavailable")

// ProgressionCoordinator drives the pipeline behind every completion report:
// validate the session, write the ledger, advance quests, evaluate
// achievements, and hand back the consolidated result.
type ProgressionCoordinator struct {
	DB       *gorm.DB
	Sessions *SessionStore
}

func NewProgressionCoordinator(db *gorm.DB, sessions *SessionStore) *ProgressionCoordinator {
	return &ProgressionCoordinator{DB: db, Sessions: sessions}
}

// HandleCompletion processes one completion payload. Rejections (unknown,
// expired, foreign or already-completed sessions) stop the pipeline before
// any durable write. The ledger, quest and achievement writes run in a single
// transaction, retried with backoff; if the retries exhaust, the session is
// reopened so the client's own retry can succeed.
func (c *ProgressionCoordinator) HandleCompletion(p models.CompletionPayload) (*models.CompletionResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	sess, err := c.Sessions.CompleteOnce(p.SessionID, p.UserID, p.Score, p.GameStats)
	if err != nil {
		return nil, err
	}

	ev := models.CompletedGameEvent{
		UserID:    sess.UserID,
		GameID:    sess.GameID,
		ChatID:    sess.ChatID,
		Score:     p.Score,
		GameStats: p.GameStats,
		At:        *sess.EndTime,
	}

	var result models.CompletionResult
	err = withRetry(func() error {
		return c.DB.Transaction(func(tx *gorm.DB) error {
			isBest, err := NewScoreLedger(tx).Record(ev.UserID, ev.GameID, ev.Score, ev.GameStats, ev.At)
			if err != nil {
				return fmt.Errorf("recording score: %w", err)
			}

			updated, err := NewQuestEngine(tx).Advance(ev.UserID, ev)
			if err != nil {
				return fmt.Errorf("advancing quests: %w", err)
			}

			ach := NewAchievementService(tx)
			snap, err := NewScoreLedger(tx).Snapshot(ev.UserID, ev.GameID)
			if err != nil {
				return fmt.Errorf("ledger snapshot: %w", err)
			}
			unlocked, err := ach.UnlockedSet(ev.UserID)
			if err != nil {
				return fmt.Errorf("loading unlocks: %w", err)
			}
			newly := EvaluateAchievements(ev, snap, unlocked)
			if err := ach.Persist(ev.UserID, newly); err != nil {
				return fmt.Errorf("persisting unlocks: %w", err)
			}

			result = models.CompletionResult{
				Score:                ev.Score,
				IsPersonalBest:       isBest,
				UpdatedQuests:        updated,
				UnlockedAchievements: newly,
			}
			return nil
		})
	})
	if err != nil {
		c.Sessions.reopen(p.SessionID)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &result, nil
}

func withRetry(op func() error) error {
	delay := storeRetryBase
	var err error
	for attempt := 1; attempt <= storeRetryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		log.Printf("[PROGRESSION] store write failed (attempt %d/%d): %v", attempt, storeRetryAttempts, err)
		if attempt < storeRetryAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
