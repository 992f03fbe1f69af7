package services

import (
	"sort"
	"time"

	"game-arcade-system/models"

	"gorm.io/gorm"
)

// RankScope narrows a leaderboard: GameID limits to one game, ChatID limits
// to members of one group chat. Zero values mean unscoped.
type RankScope struct {
	GameID string
	ChatID int64
}

// RankingService computes leaderboard views from PersonalBest records. Reads
// only; brief staleness against in-flight writes is fine.
type RankingService struct {
	DB *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{DB: db}
}

type rankedRow struct {
	UserID     string
	Username   string
	Score      int64
	AchievedAt time.Time
}

// Rank returns the ordered leaderboard for a scope: score descending, ties
// broken by earliest AchievedAt, 1-based positions.
func (s *RankingService) Rank(scope RankScope, limit int) ([]models.RankingEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, err := s.fetch(scope)
	if err != nil {
		return nil, err
	}
	entries := rankRows(rows)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// PositionOf returns the user's standing within a scope, or nil if the user
// has no qualifying personal best.
func (s *RankingService) PositionOf(userID string, scope RankScope) (*models.RankPosition, error) {
	rows, err := s.fetch(scope)
	if err != nil {
		return nil, err
	}
	entries := rankRows(rows)
	for _, e := range entries {
		if e.UserID == userID {
			return &models.RankPosition{
				Position:     e.Position,
				TotalPlayers: len(entries),
				Score:        e.Score,
			}, nil
		}
	}
	return nil, nil
}

func (s *RankingService) fetch(scope RankScope) ([]rankedRow, error) {
	q := s.DB.Table("personal_bests AS pb").
		Select("pb.external_user_id AS user_id, COALESCE(u.username, pb.external_user_id) AS username, pb.best_score AS score, pb.achieved_at").
		Joins("LEFT JOIN arcade_users u ON u.external_user_id = pb.external_user_id AND u.deleted_at IS NULL").
		Where("pb.deleted_at IS NULL")
	if scope.GameID != "" {
		q = q.Where("pb.game_id = ?", scope.GameID)
	}
	if scope.ChatID != 0 {
		q = q.Joins("JOIN chat_members cm ON cm.external_user_id = pb.external_user_id AND cm.chat_id = ?", scope.ChatID)
	}
	var rows []rankedRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// rankRows sorts, dedupes and numbers raw best-score rows. Without a game
// filter a user appears once per game; only their highest best counts. Order
// is deterministic: score descending, then earliest AchievedAt, then user id.
func rankRows(rows []rankedRow) []models.RankingEntry {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		if !rows[i].AchievedAt.Equal(rows[j].AchievedAt) {
			return rows[i].AchievedAt.Before(rows[j].AchievedAt)
		}
		return rows[i].UserID < rows[j].UserID
	})

	seen := make(map[string]bool, len(rows))
	entries := make([]models.RankingEntry, 0, len(rows))
	for _, r := range rows {
		if seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		entries = append(entries, models.RankingEntry{
			Position:   len(entries) + 1,
			UserID:     r.UserID,
			Username:   r.Username,
			Score:      r.Score,
			AchievedAt: r.AchievedAt,
		})
	}
	return entries
}
