package models

import "time"

// Session is an ephemeral play session handed out on a play request. It lives
// only in the in-memory session store, never in the database, and is mutated
// exactly once, on completion.
type Session struct {
	ID        string           `json:"session_id"`
	UserID    string           `json:"user_id"`
	GameID    string           `json:"game_id"`
	ChatID    int64            `json:"chat_id"`
	StartTime time.Time        `json:"start_time"`
	Score     int64            `json:"score"`
	Completed bool             `json:"completed"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
	GameStats map[string]int64 `json:"game_stats,omitempty"`
}
