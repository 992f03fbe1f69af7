package models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ArcadeUser is a local snapshot of the data this service needs about a
// messaging-platform user. Owned solely by the arcade service; populated by
// the sync worker from the bot's profile service.
type ArcadeUser struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // the bot platform's user id
	Username       string `gorm:"index;not null" json:"username"`
	UsernameFolded string `gorm:"index" json:"-"` // case-folded, for search
	DisplayName    string `json:"display_name,omitempty"`

	Timestamps
}

// ChatMember records that a user belongs to a group chat. Group-scoped
// leaderboards filter on these rows.
type ChatMember struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ChatID         int64     `gorm:"uniqueIndex:ux_chat_member,priority:1;not null" json:"chat_id"`
	ExternalUserID string    `gorm:"uniqueIndex:ux_chat_member,priority:2;not null" json:"external_user_id"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// UserWallet holds the coin balance credited by quest claims.
type UserWallet struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Balance        int64  `gorm:"default:0" json:"balance"`

	Timestamps
}
