package services

import (
	"errors"
	"time"

	"game-arcade-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreLedger is the durable source of truth for scores: an append-only
// history plus a derived personal best per (user, game).
type ScoreLedger struct {
	DB *gorm.DB
}

func NewScoreLedger(db *gorm.DB) *ScoreLedger {
	return &ScoreLedger{DB: db}
}

// Record appends a ScoreEntry and compare-and-sets the PersonalBest in one
// transaction, row-locked so concurrent submissions for the same (user, game)
// cannot lose updates. Ties are not a new best. Concurrent first inserts are
// arbitrated by the unique index; the loser's retry finds the row.
func (l *ScoreLedger) Record(userID, gameID string, score int64, stats map[string]int64, at time.Time) (bool, error) {
	isBest := false
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		entry := models.ScoreEntry{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			GameID:         gameID,
			Score:          score,
			GameStats:      stats,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		var best models.PersonalBest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ? AND game_id = ?", userID, gameID).
			First(&best).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			isBest = true
			return tx.Create(&models.PersonalBest{
				ID:             uuid.NewString(),
				ExternalUserID: userID,
				GameID:         gameID,
				BestScore:      score,
				AchievedAt:     at,
			}).Error
		}
		if err != nil {
			return err
		}

		if score > best.BestScore {
			isBest = true
			best.BestScore = score
			best.AchievedAt = at
			return tx.Save(&best).Error
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return isBest, nil
}

// BestScore returns the personal best for (user, game); ok=false when the
// user has never finished that game.
func (l *ScoreLedger) BestScore(userID, gameID string) (int64, bool, error) {
	var best models.PersonalBest
	err := l.DB.Where("external_user_id = ? AND game_id = ?", userID, gameID).First(&best).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return best.BestScore, true, nil
}

// History returns the user's score entries for a game, newest first.
func (l *ScoreLedger) History(userID, gameID string, limit int) ([]models.ScoreEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var entries []models.ScoreEntry
	err := l.DB.Where("external_user_id = ? AND game_id = ?", userID, gameID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Bests returns all personal bests for a user, highest score first.
func (l *ScoreLedger) Bests(userID string) ([]models.PersonalBest, error) {
	var bests []models.PersonalBest
	err := l.DB.Where("external_user_id = ?", userID).
		Order("best_score DESC").
		Find(&bests).Error
	return bests, err
}

// Snapshot aggregates the ledger state achievement conditions read. Includes
// the play recorded for the current event, so it must be taken after Record.
func (l *ScoreLedger) Snapshot(userID, gameID string) (LedgerSnapshot, error) {
	var snap LedgerSnapshot
	err := l.DB.Model(&models.ScoreEntry{}).
		Select("COUNT(*) AS total_plays, COUNT(DISTINCT game_id) AS distinct_games, COALESCE(SUM(score), 0) AS cumulative_score").
		Where("external_user_id = ?", userID).
		Scan(&snap).Error
	if err != nil {
		return snap, err
	}
	best, ok, err := l.BestScore(userID, gameID)
	if err != nil {
		return snap, err
	}
	if ok {
		snap.BestScore = best
	}
	return snap, nil
}
