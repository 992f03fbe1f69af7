package services

import (
	"log"

	"game-arcade-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerSnapshot is the slice of ledger state achievement conditions read.
type LedgerSnapshot struct {
	TotalPlays      int64
	DistinctGames   int64
	CumulativeScore int64
	BestScore       int64
}

// EvaluateAchievements maps a completed-game event plus ledger state to the
// catalog entries it newly unlocks. Pure and side-effect-free: entries already
// in unlocked are never re-emitted, so re-evaluating the same event cannot
// duplicate an unlock. The caller persists the union.
func EvaluateAchievements(ev models.CompletedGameEvent, snap LedgerSnapshot, unlocked map[string]bool) []models.AchievementType {
	var newly []models.AchievementType
	for _, a := range models.AchievementCatalog {
		if unlocked[a.Code] {
			continue
		}
		if a.GameID != "" && a.GameID != ev.GameID {
			continue
		}
		if achievementMet(a, ev, snap) {
			newly = append(newly, a)
		}
	}
	return newly
}

func achievementMet(a models.AchievementType, ev models.CompletedGameEvent, snap LedgerSnapshot) bool {
	switch a.Condition {
	case models.CondTotalPlays:
		return snap.TotalPlays >= a.Value
	case models.CondSingleScore:
		return ev.Score >= a.Value
	case models.CondDistinctGames:
		return snap.DistinctGames >= a.Value
	case models.CondCumulativeScore:
		return snap.CumulativeScore >= a.Value
	}
	return false
}

// AchievementService persists per-user unlock sets and serves the catalog
// with unlock status.
type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// UnlockedSet returns the user's unlocked achievement codes.
func (s *AchievementService) UnlockedSet(userID string) (map[string]bool, error) {
	var rows []models.UserAchievement
	if err := s.DB.Where("external_user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(rows))
	for _, r := range rows {
		unlocked[r.Code] = true
	}
	return unlocked, nil
}

// Persist unions the newly unlocked entries into the user's set. The unique
// index makes replays no-ops.
func (s *AchievementService) Persist(userID string, newly []models.AchievementType) error {
	for _, a := range newly {
		row := models.UserAchievement{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			Code:           a.Code,
		}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		log.Printf("[ACHIEVEMENTS] unlocked %s for %s", a.Code, userID)
	}
	return nil
}

// ListWithStatus returns the full catalog annotated with the user's unlocks.
func (s *AchievementService) ListWithStatus(userID string) ([]models.AchievementStatus, error) {
	var rows []models.UserAchievement
	if err := s.DB.Where("external_user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	unlockedAt := make(map[string]models.UserAchievement, len(rows))
	for _, r := range rows {
		unlockedAt[r.Code] = r
	}

	statuses := make([]models.AchievementStatus, 0, len(models.AchievementCatalog))
	for _, a := range models.AchievementCatalog {
		st := models.AchievementStatus{AchievementType: a}
		if r, ok := unlockedAt[a.Code]; ok {
			st.Unlocked = true
			t := r.UnlockedAt
			st.UnlockedAt = &t
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
