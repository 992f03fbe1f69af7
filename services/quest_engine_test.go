package services

import (
	"testing"

	"game-arcade-system/models"
)

func TestApplyQuestRule_PlayCount(t *testing.T) {
	q := &models.Quest{Rule: models.QuestRulePlayCount, Progress: 2, Target: 5}
	ev := models.CompletedGameEvent{GameID: "pixel-sprint", Score: 10}
	if got := applyQuestRule(q, ev); got != 3 {
		t.Errorf("progress = %d, want 3", got)
	}
}

func TestApplyQuestRule_ScoreThreshold(t *testing.T) {
	q := &models.Quest{Rule: models.QuestRuleScoreThreshold, MinScore: 500, Progress: 0, Target: 1}

	below := models.CompletedGameEvent{GameID: "pixel-sprint", Score: 499}
	if got := applyQuestRule(q, below); got != 0 {
		t.Errorf("progress after below-threshold play = %d, want 0", got)
	}

	at := models.CompletedGameEvent{GameID: "pixel-sprint", Score: 500}
	if got := applyQuestRule(q, at); got != 1 {
		t.Errorf("progress after at-threshold play = %d, want 1", got)
	}
}

func TestApplyQuestRule_CumulativeScore(t *testing.T) {
	q := &models.Quest{Rule: models.QuestRuleCumulativeScore, Progress: 300, Target: 2000}
	ev := models.CompletedGameEvent{GameID: "block-stack", Score: 250}
	if got := applyQuestRule(q, ev); got != 550 {
		t.Errorf("progress = %d, want 550", got)
	}
}

func TestApplyQuestRule_GameFilter(t *testing.T) {
	q := &models.Quest{Rule: models.QuestRulePlayCount, GameID: "emoji-match", Progress: 0, Target: 3}
	ev := models.CompletedGameEvent{GameID: "pixel-sprint", Score: 10}
	if got := applyQuestRule(q, ev); got != 0 {
		t.Errorf("progress = %d, want 0 (other game must not count)", got)
	}
}

func TestQuestEngine_EnsureDailyQuests_Idempotent(t *testing.T) {
	db := getTestDB(t)
	e := NewQuestEngine(db)

	first, err := e.EnsureDailyQuests("u1")
	if err != nil {
		t.Fatalf("EnsureDailyQuests() error: %v", err)
	}
	if len(first) != len(models.DailyQuestTemplates) {
		t.Fatalf("assigned %d quests, want %d", len(first), len(models.DailyQuestTemplates))
	}

	second, err := e.EnsureDailyQuests("u1")
	if err != nil {
		t.Fatalf("second EnsureDailyQuests() error: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("second call assigned %d quests, want %d (idempotent)", len(second), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("quest %s re-instantiated with a new id", first[i].Code)
		}
	}
}

func TestQuestEngine_Advance_FirstPlayCompletesPlayOne(t *testing.T) {
	db := getTestDB(t)
	e := NewQuestEngine(db)

	if _, err := e.EnsureDailyQuests("u1"); err != nil {
		t.Fatal(err)
	}

	ev := models.CompletedGameEvent{UserID: "u1", GameID: "pixel-sprint", Score: 50}
	updated, err := e.Advance("u1", ev)
	if err != nil {
		t.Fatalf("Advance() error: %v", err)
	}

	var playOne *models.Quest
	for i := range updated {
		if updated[i].Code == "DAILY_PLAY_1" {
			playOne = &updated[i]
		}
		if updated[i].Progress == 0 {
			t.Errorf("quest %s returned as updated without progress", updated[i].Code)
		}
	}
	if playOne == nil {
		t.Fatal("DAILY_PLAY_1 missing from updated quests")
	}
	if playOne.Progress != 1 || !playOne.Completed || playOne.Claimed {
		t.Errorf("DAILY_PLAY_1 = progress %d completed %t claimed %t, want 1/true/false",
			playOne.Progress, playOne.Completed, playOne.Claimed)
	}

	// A 50-point play must not touch the 500-point threshold quest.
	for _, q := range updated {
		if q.Code == "DAILY_SCORE_500" {
			t.Error("DAILY_SCORE_500 advanced by a 50-point play")
		}
	}
}

func TestQuestEngine_Advance_CapsAtTarget(t *testing.T) {
	db := getTestDB(t)
	e := NewQuestEngine(db)

	if _, err := e.EnsureDailyQuests("u1"); err != nil {
		t.Fatal(err)
	}

	ev := models.CompletedGameEvent{UserID: "u1", GameID: "pixel-sprint", Score: 5000}
	updated, err := e.Advance("u1", ev)
	if err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	for _, q := range updated {
		if q.Progress > q.Target {
			t.Errorf("quest %s progress %d exceeds target %d", q.Code, q.Progress, q.Target)
		}
		if q.Code == "DAILY_TOTAL_2000" && (!q.Completed || q.Progress != 2000) {
			t.Errorf("DAILY_TOTAL_2000 = progress %d completed %t, want 2000/true", q.Progress, q.Completed)
		}
	}

	// Completed quests never advance again.
	again, err := e.Advance("u1", ev)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range again {
		if q.Code == "DAILY_TOTAL_2000" {
			t.Error("completed quest advanced a second time")
		}
	}
}

func TestQuestEngine_Claim_Idempotent(t *testing.T) {
	db := getTestDB(t)
	e := NewQuestEngine(db)

	if _, err := e.EnsureDailyQuests("u1"); err != nil {
		t.Fatal(err)
	}
	ev := models.CompletedGameEvent{UserID: "u1", GameID: "pixel-sprint", Score: 50}
	updated, err := e.Advance("u1", ev)
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	var wantReward int64
	for _, q := range updated {
		ids = append(ids, q.ID)
		if q.Completed {
			wantReward += q.Reward
		}
	}

	// First claim pays out only the completed quests in the list.
	total, err := e.Claim("u1", ids)
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if total != wantReward {
		t.Errorf("total reward = %d, want %d", total, wantReward)
	}
	balance, err := e.Balance("u1")
	if err != nil {
		t.Fatal(err)
	}
	if balance != wantReward {
		t.Errorf("balance = %d, want %d", balance, wantReward)
	}

	// Replaying the same stale list credits nothing.
	total, err = e.Claim("u1", ids)
	if err != nil {
		t.Fatalf("second Claim() error: %v", err)
	}
	if total != 0 {
		t.Errorf("second claim paid %d, want 0", total)
	}
	balance, _ = e.Balance("u1")
	if balance != wantReward {
		t.Errorf("balance after replay = %d, want %d", balance, wantReward)
	}
}

func TestQuestEngine_Claim_EmptyAndForeignIDs(t *testing.T) {
	db := getTestDB(t)
	e := NewQuestEngine(db)

	if total, err := e.Claim("u1", nil); err != nil || total != 0 {
		t.Errorf("Claim(nil) = %d, %v; want 0, nil", total, err)
	}
	if total, err := e.Claim("u1", []string{"not-a-quest"}); err != nil || total != 0 {
		t.Errorf("Claim(unknown id) = %d, %v; want 0, nil", total, err)
	}
}
