package models

import "time"

// ScoreEntry is one completed play. Append-only per (user, game); the ledger
// never updates or deletes these rows.
type ScoreEntry struct {
	ID             string           `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string           `gorm:"index:ix_scores_user_game,priority:1;not null" json:"external_user_id"`
	GameID         string           `gorm:"index:ix_scores_user_game,priority:2;not null" json:"game_id"`
	Score          int64            `json:"score"`
	GameStats      map[string]int64 `gorm:"type:jsonb;serializer:json" json:"game_stats,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

// PersonalBest is the derived best score per (user, game). BestScore always
// equals the maximum Score over that pair's ScoreEntries; the unique index
// arbitrates concurrent first inserts.
type PersonalBest struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:ux_best_user_game,priority:1;not null" json:"external_user_id"`
	GameID         string    `gorm:"uniqueIndex:ux_best_user_game,priority:2;not null" json:"game_id"`
	BestScore      int64     `json:"best_score"`
	AchievedAt     time.Time `json:"achieved_at"`

	Timestamps
}
