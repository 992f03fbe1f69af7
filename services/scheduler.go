// services/scheduler.go
package services

import (
	"log"
	"time"

	"game-arcade-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartQuestScheduler runs the periodic quest jobs: the daily rollover that
// assigns the day's quest set to every known user, and an hourly sweep of old
// quest rows.
func (e *QuestEngine) StartQuestScheduler() {
	// Quest days are UTC, so the rollover must fire on UTC midnight.
	sched, _ := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	sched.Start()

	// Midnight UTC: instantiate today's quests for all mirrored users. New or
	// unmirrored users are covered lazily by EnsureDailyQuests on listing.
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			var users []models.ArcadeUser
			if err := e.DB.Find(&users).Error; err != nil {
				log.Printf("[Scheduler] DB error loading users for rollover: %v", err)
				return
			}
			assigned := 0
			for _, u := range users {
				if _, err := e.EnsureDailyQuests(u.ExternalUserID); err != nil {
					log.Printf("[Scheduler] Failed to assign quests to %s: %v", u.ExternalUserID, err)
					continue
				}
				assigned++
			}
			log.Printf("[Scheduler] Daily quest rollover done for %d user(s)", assigned)
		}),
	)

	// Hourly: drop quest rows past the retention window.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := e.SweepExpired(); err != nil {
				log.Printf("[Scheduler] Quest sweep failed: %v", err)
			}
		}),
	)
}
