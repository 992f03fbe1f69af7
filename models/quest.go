package models

import "time"

// QuestRule selects how a quest's progress moves on a completed play.
type QuestRule string

const (
	QuestRulePlayCount       QuestRule = "play_count"       // +1 per completed play
	QuestRuleScoreThreshold  QuestRule = "score_threshold"  // +1 per play scoring at least MinScore
	QuestRuleCumulativeScore QuestRule = "cumulative_score" // progress accumulates the raw score
)

// QuestTemplate: static config for the daily quest set
type QuestTemplate struct {
	Code        string
	Description string
	Rule        QuestRule
	GameID      string // empty = any game counts
	MinScore    int64  // score_threshold only
	Target      int64
	Reward      int64
}

// DailyQuestTemplates is instantiated per user on the daily rollover.
var DailyQuestTemplates = []QuestTemplate{
	{
		Code:        "DAILY_PLAY_1",
		Description: "Play any game",
		Rule:        QuestRulePlayCount,
		Target:      1,
		Reward:      50,
	},
	{
		Code:        "DAILY_PLAY_5",
		Description: "Play 5 games",
		Rule:        QuestRulePlayCount,
		Target:      5,
		Reward:      150,
	},
	{
		Code:        "DAILY_SCORE_500",
		Description: "Score 500+ in a single game",
		Rule:        QuestRuleScoreThreshold,
		MinScore:    500,
		Target:      1,
		Reward:      100,
	},
	{
		Code:        "DAILY_TOTAL_2000",
		Description: "Rack up 2000 points across all games",
		Rule:        QuestRuleCumulativeScore,
		Target:      2000,
		Reward:      200,
	},
}

// Quest is one user's instance of a template for a given day. Progress is
// mutated only by the quest engine; Completed flips once and never reverts;
// Claimed flips once and gates the reward credit.
type Quest struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"uniqueIndex:ux_quest_user_code_day,priority:1;not null" json:"external_user_id"`
	Code           string     `gorm:"uniqueIndex:ux_quest_user_code_day,priority:2;not null" json:"code"`
	AssignedDay    string     `gorm:"uniqueIndex:ux_quest_user_code_day,priority:3;not null" json:"assigned_day"` // YYYY-MM-DD, UTC
	Description    string     `json:"description"`
	Rule           QuestRule  `gorm:"type:varchar(32)" json:"rule"`
	GameID         string     `json:"game_id,omitempty"`
	MinScore       int64      `json:"min_score,omitempty"`
	Progress       int64      `gorm:"default:0" json:"progress"`
	Target         int64      `json:"target"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	Claimed        bool       `gorm:"default:false" json:"claimed"`
	Reward         int64      `json:"reward"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`

	Timestamps
}
