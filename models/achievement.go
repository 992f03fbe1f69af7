package models

import "time"

// UnlockCondition selects what an achievement threshold is compared against.
type UnlockCondition string

const (
	CondTotalPlays      UnlockCondition = "total_plays"
	CondSingleScore     UnlockCondition = "single_score" // the submitted play's score
	CondDistinctGames   UnlockCondition = "distinct_games"
	CondCumulativeScore UnlockCondition = "cumulative_score"
)

// AchievementType: global immutable catalog entry
type AchievementType struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Emoji       string          `json:"emoji"`
	Condition   UnlockCondition `json:"-"`
	Value       int64           `json:"-"`
	GameID      string          `json:"game_id,omitempty"` // empty = any game
}

// AchievementCatalog is evaluated after every recorded play.
var AchievementCatalog = []AchievementType{
	{
		Code:        "FIRST_PLAY",
		Name:        "First Steps",
		Description: "Finished your first game",
		Emoji:       "🎮",
		Condition:   CondTotalPlays,
		Value:       1,
	},
	{
		Code:        "PLAYS_10",
		Name:        "Regular",
		Description: "Finished 10 games",
		Emoji:       "🕹️",
		Condition:   CondTotalPlays,
		Value:       10,
	},
	{
		Code:        "PLAYS_100",
		Name:        "Arcade Rat",
		Description: "Finished 100 games",
		Emoji:       "👾",
		Condition:   CondTotalPlays,
		Value:       100,
	},
	{
		Code:        "SCORE_1000",
		Name:        "Four Digits",
		Description: "Scored 1000+ in a single game",
		Emoji:       "🔥",
		Condition:   CondSingleScore,
		Value:       1000,
	},
	{
		Code:        "EXPLORER",
		Name:        "Explorer",
		Description: "Played 3 different games",
		Emoji:       "🧭",
		Condition:   CondDistinctGames,
		Value:       3,
	},
	{
		Code:        "GRINDER",
		Name:        "Grinder",
		Description: "Accumulated 10000 points overall",
		Emoji:       "⚙️",
		Condition:   CondCumulativeScore,
		Value:       10000,
	},
}

// UserAchievement is one unlocked catalog entry. The set per user only grows;
// the unique index makes re-unlocks a no-op.
type UserAchievement struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:ux_ach_user_code,priority:1;not null" json:"external_user_id"`
	Code           string    `gorm:"uniqueIndex:ux_ach_user_code,priority:2;not null" json:"code"`
	UnlockedAt     time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// AchievementStatus pairs a catalog entry with a user's unlock state.
type AchievementStatus struct {
	AchievementType
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
