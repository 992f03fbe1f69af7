package models

import "time"

// RankingEntry is one leaderboard row. Derived on demand from PersonalBest,
// never stored.
type RankingEntry struct {
	Position   int       `json:"position"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Score      int64     `json:"score"`
	AchievedAt time.Time `json:"achieved_at"`
}

// RankPosition is a single user's standing within a scope.
type RankPosition struct {
	Position     int   `json:"position"`
	TotalPlayers int   `json:"total_players"`
	Score        int64 `json:"score"`
}
