package models

import (
	"errors"
	"fmt"
	"time"
)

// PayloadKind discriminates completion payload variants. The set is closed:
// anything else is rejected at the boundary before reaching the pipeline.
type PayloadKind string

const (
	PayloadGameCompleted PayloadKind = "game_completed"
)

// CompletionPayload is the raw completion report as it arrives from the
// command layer.
type CompletionPayload struct {
	Kind      PayloadKind      `json:"kind"`
	SessionID string           `json:"session_id"`
	UserID    string           `json:"user_id"`
	Score     int64            `json:"score"`
	GameStats map[string]int64 `json:"game_stats,omitempty"`
}

var ErrInvalidPayload = errors.New("invalid completion payload")

func (p CompletionPayload) Validate() error {
	if p.Kind != PayloadGameCompleted {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, p.Kind)
	}
	if p.SessionID == "" {
		return fmt.Errorf("%w: missing session id", ErrInvalidPayload)
	}
	if p.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidPayload)
	}
	if p.Score < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidPayload)
	}
	return nil
}

// CompletedGameEvent is a validated completion, tied to the session that
// vouched for it. Everything downstream of the session store consumes this.
type CompletedGameEvent struct {
	UserID    string
	GameID    string
	ChatID    int64
	Score     int64
	GameStats map[string]int64
	At        time.Time
}

// CompletionResult is the consolidated outcome of one completion event and
// the pipeline's only externally observable output.
type CompletionResult struct {
	Score                int64             `json:"score"`
	IsPersonalBest       bool              `json:"is_personal_best"`
	UpdatedQuests        []Quest           `json:"updated_quests"`
	UnlockedAchievements []AchievementType `json:"unlocked_achievements"`
}
