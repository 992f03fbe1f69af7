package services

import (
	"errors"
	"testing"
	"time"

	"game-arcade-system/models"
)

func newTestCoordinator(t *testing.T) (*ProgressionCoordinator, *SessionStore, *time.Time) {
	t.Helper()
	db := getTestDB(t)
	sessions, clock := newTestStore(t)
	return NewProgressionCoordinator(db, sessions), sessions, clock
}

func completionPayload(sess *models.Session, score int64) models.CompletionPayload {
	return models.CompletionPayload{
		Kind:      models.PayloadGameCompleted,
		SessionID: sess.ID,
		UserID:    sess.UserID,
		Score:     score,
	}
}

func TestCoordinator_DuplicateCompletionIsNoOp(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t)
	ledger := NewScoreLedger(c.DB)

	sess := sessions.Create("u1", "pixel-sprint", 0)

	result, err := c.HandleCompletion(completionPayload(sess, 100))
	if err != nil {
		t.Fatalf("HandleCompletion() error: %v", err)
	}
	if !result.IsPersonalBest {
		t.Error("first completion should be a personal best")
	}
	best, _, _ := ledger.BestScore("u1", "pixel-sprint")
	if best != 100 {
		t.Errorf("bestScore = %d, want 100", best)
	}

	var entriesBefore, questsBefore, unlocksBefore int64
	c.DB.Model(&models.ScoreEntry{}).Count(&entriesBefore)
	c.DB.Model(&models.Quest{}).Where("progress > 0").Count(&questsBefore)
	c.DB.Model(&models.UserAchievement{}).Count(&unlocksBefore)

	// Same session, higher score: rejected, nothing moves.
	_, err = c.HandleCompletion(completionPayload(sess, 150))
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("duplicate error = %v, want ErrAlreadyCompleted", err)
	}
	best, _, _ = ledger.BestScore("u1", "pixel-sprint")
	if best != 100 {
		t.Errorf("bestScore after duplicate = %d, want 100", best)
	}

	var entriesAfter, questsAfter, unlocksAfter int64
	c.DB.Model(&models.ScoreEntry{}).Count(&entriesAfter)
	c.DB.Model(&models.Quest{}).Where("progress > 0").Count(&questsAfter)
	c.DB.Model(&models.UserAchievement{}).Count(&unlocksAfter)
	if entriesAfter != entriesBefore || questsAfter != questsBefore || unlocksAfter != unlocksBefore {
		t.Error("duplicate completion caused ledger/quest/achievement side effects")
	}
}

func TestCoordinator_FirstPlayAdvancesQuestAndUnlocks(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t)

	if _, err := NewQuestEngine(c.DB).EnsureDailyQuests("u1"); err != nil {
		t.Fatal(err)
	}
	sess := sessions.Create("u1", "pixel-sprint", 0)

	result, err := c.HandleCompletion(completionPayload(sess, 50))
	if err != nil {
		t.Fatalf("HandleCompletion() error: %v", err)
	}

	var playOne *models.Quest
	for i := range result.UpdatedQuests {
		if result.UpdatedQuests[i].Code == "DAILY_PLAY_1" {
			playOne = &result.UpdatedQuests[i]
		}
	}
	if playOne == nil {
		t.Fatal("DAILY_PLAY_1 missing from result")
	}
	if playOne.Progress != 1 || !playOne.Completed || playOne.Claimed {
		t.Errorf("DAILY_PLAY_1 = progress %d completed %t claimed %t, want 1/true/false",
			playOne.Progress, playOne.Completed, playOne.Claimed)
	}

	var gotFirstPlay bool
	for _, a := range result.UnlockedAchievements {
		if a.Code == "FIRST_PLAY" {
			gotFirstPlay = true
		}
	}
	if !gotFirstPlay {
		t.Error("FIRST_PLAY missing from unlocked achievements")
	}
}

func TestCoordinator_ExpiredSessionLeavesNoTrace(t *testing.T) {
	c, sessions, clock := newTestCoordinator(t)

	sess := sessions.Create("u1", "pixel-sprint", 0)
	*clock = clock.Add(sessionLifetime + time.Minute)

	_, err := c.HandleCompletion(completionPayload(sess, 100))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}

	var entries int64
	c.DB.Model(&models.ScoreEntry{}).Count(&entries)
	if entries != 0 {
		t.Errorf("expired completion wrote %d ledger entries, want 0", entries)
	}
}

func TestCoordinator_OwnerMismatchLeavesNoTrace(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t)

	sess := sessions.Create("u1", "pixel-sprint", 0)
	payload := completionPayload(sess, 100)
	payload.UserID = "intruder"

	_, err := c.HandleCompletion(payload)
	if !errors.Is(err, ErrOwnerMismatch) {
		t.Fatalf("error = %v, want ErrOwnerMismatch", err)
	}

	var entries int64
	c.DB.Model(&models.ScoreEntry{}).Count(&entries)
	if entries != 0 {
		t.Errorf("foreign completion wrote %d ledger entries, want 0", entries)
	}

	// The real owner can still complete.
	if _, err := c.HandleCompletion(completionPayload(sess, 100)); err != nil {
		t.Errorf("owner completion after rejected intruder: %v", err)
	}
}

func TestCoordinator_RejectsMalformedPayload(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	_, err := c.HandleCompletion(models.CompletionPayload{
		Kind:      "score_update", // not a recognized variant
		SessionID: "ps-whatever",
		UserID:    "u1",
		Score:     10,
	})
	if !errors.Is(err, models.ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
}
