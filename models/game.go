package models

import "github.com/gosimple/slug"

// MiniGame is a playable entry in the arcade catalog. The catalog is code, not
// data: games ship with the service.
type MiniGame struct {
	ID               string `json:"id"` // URL slug, embedded in launch links
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	Emoji            string `json:"emoji"`
	Enabled          bool   `json:"enabled"`
}

var GameCatalog = []MiniGame{
	{
		ID:               slug.Make("Pixel Sprint"),
		Name:             "Pixel Sprint",
		ShortDescription: "Endless runner. Dodge, jump, survive.",
		Emoji:            "🏃",
		Enabled:          true,
	},
	{
		ID:               slug.Make("Block Stack"),
		Name:             "Block Stack",
		ShortDescription: "Stack falling blocks as high as you can.",
		Emoji:            "🧱",
		Enabled:          true,
	},
	{
		ID:               slug.Make("Emoji Match"),
		Name:             "Emoji Match",
		ShortDescription: "Memory pairs against the clock.",
		Emoji:            "🃏",
		Enabled:          true,
	},
	{
		ID:               slug.Make("Snake Royale"),
		Name:             "Snake Royale",
		ShortDescription: "The classic, with power-ups.",
		Emoji:            "🐍",
		Enabled:          false, // in rollout
	},
}
