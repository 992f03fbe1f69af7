package services

import (
	"errors"
	"log"
	"time"

	"game-arcade-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// questSweepAge: claimed or abandoned quests older than this are deleted.
const questSweepAge = 7 * 24 * time.Hour

// QuestEngine advances daily quest progress from completed-game events and
// settles reward claims against the user wallet.
type QuestEngine struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewQuestEngine(db *gorm.DB) *QuestEngine {
	return &QuestEngine{DB: db, now: time.Now}
}

func questDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// EnsureDailyQuests instantiates today's quest set for the user. Idempotent:
// the unique (user, code, day) index turns repeats into no-ops, so it is safe
// to call both from the rollover job and lazily on every quest listing.
func (e *QuestEngine) EnsureDailyQuests(userID string) ([]models.Quest, error) {
	day := questDay(e.now())
	for _, tpl := range models.DailyQuestTemplates {
		q := models.Quest{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			Code:           tpl.Code,
			AssignedDay:    day,
			Description:    tpl.Description,
			Rule:           tpl.Rule,
			GameID:         tpl.GameID,
			MinScore:       tpl.MinScore,
			Target:         tpl.Target,
			Reward:         tpl.Reward,
		}
		if err := e.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&q).Error; err != nil {
			return nil, err
		}
	}
	return e.ListDaily(userID)
}

// ListDaily returns the user's quests for today.
func (e *QuestEngine) ListDaily(userID string) ([]models.Quest, error) {
	var quests []models.Quest
	err := e.DB.Where("external_user_id = ? AND assigned_day = ?", userID, questDay(e.now())).
		Order("code ASC").
		Find(&quests).Error
	return quests, err
}

// applyQuestRule returns the quest's new (uncapped) progress for one
// completed-game event. Pure; the transactional bookkeeping lives in Advance.
func applyQuestRule(q *models.Quest, ev models.CompletedGameEvent) int64 {
	if q.GameID != "" && q.GameID != ev.GameID {
		return q.Progress
	}
	switch q.Rule {
	case models.QuestRulePlayCount:
		return q.Progress + 1
	case models.QuestRuleScoreThreshold:
		if ev.Score >= q.MinScore {
			return q.Progress + 1
		}
		return q.Progress
	case models.QuestRuleCumulativeScore:
		return q.Progress + ev.Score
	}
	return q.Progress
}

// Advance applies the event to every active, uncompleted quest of the user.
// Progress caps at target; Completed flips in the same step progress first
// reaches it. Returns only quests whose progress changed.
func (e *QuestEngine) Advance(userID string, ev models.CompletedGameEvent) ([]models.Quest, error) {
	day := questDay(e.now())
	var updated []models.Quest
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var quests []models.Quest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ? AND assigned_day = ? AND completed = ?", userID, day, false).
			Order("code ASC").
			Find(&quests).Error; err != nil {
			return err
		}
		for i := range quests {
			q := &quests[i]
			next := applyQuestRule(q, ev)
			if next == q.Progress {
				continue
			}
			if next > q.Target {
				next = q.Target
			}
			q.Progress = next
			if q.Progress >= q.Target {
				now := e.now()
				q.Completed = true
				q.CompletedAt = &now
			}
			if err := tx.Save(q).Error; err != nil {
				return err
			}
			updated = append(updated, *q)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Claim marks each completed, unclaimed quest in questIDs as claimed and
// credits the summed reward to the user's wallet, all in one transaction.
// Quests that are missing, uncompleted or already claimed are ignored, so the
// call is idempotent and safe with a stale id list.
func (e *QuestEngine) Claim(userID string, questIDs []string) (int64, error) {
	if len(questIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		var quests []models.Quest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_user_id = ? AND id IN ? AND completed = ? AND claimed = ?", userID, questIDs, true, false).
			Find(&quests).Error; err != nil {
			return err
		}
		if len(quests) == 0 {
			return nil
		}
		now := e.now()
		for i := range quests {
			quests[i].Claimed = true
			quests[i].ClaimedAt = &now
			total += quests[i].Reward
			if err := tx.Save(&quests[i]).Error; err != nil {
				return err
			}
		}
		return creditWallet(tx, userID, total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func creditWallet(tx *gorm.DB, userID string, amount int64) error {
	if amount == 0 {
		return nil
	}
	res := tx.Model(&models.UserWallet{}).
		Where("external_user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&models.UserWallet{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			Balance:        amount,
		}).Error
	}
	return nil
}

// Balance returns the user's wallet balance, zero if no wallet exists yet.
func (e *QuestEngine) Balance(userID string) (int64, error) {
	var wallet models.UserWallet
	err := e.DB.Where("external_user_id = ?", userID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// SweepExpired hard-deletes quest rows past the sweep age. Unclaimed rewards
// stay claimable until then.
func (e *QuestEngine) SweepExpired() error {
	cutoff := questDay(e.now().Add(-questSweepAge))
	res := e.DB.Unscoped().Where("assigned_day < ?", cutoff).Delete(&models.Quest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[QUESTS] swept %d quest(s) older than %s", res.RowsAffected, cutoff)
	}
	return nil
}
