package services

import (
	"errors"
	"fmt"

	"game-arcade-system/models"
)

var ErrGameNotFound = errors.New("game not found")

// CatalogService serves the in-code mini-game catalog and builds launch URLs.
type CatalogService struct {
	playBaseURL string
}

// NewCatalogService takes the public base URL games are served from, e.g.
// "https://arcade.example.com/play".
func NewCatalogService(playBaseURL string) *CatalogService {
	return &CatalogService{playBaseURL: playBaseURL}
}

// Get returns an enabled game by slug.
func (s *CatalogService) Get(gameID string) (*models.MiniGame, error) {
	for i := range models.GameCatalog {
		g := &models.GameCatalog[i]
		if g.ID == gameID && g.Enabled {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrGameNotFound, gameID)
}

// Enabled lists the playable catalog.
func (s *CatalogService) Enabled() []models.MiniGame {
	games := make([]models.MiniGame, 0, len(models.GameCatalog))
	for _, g := range models.GameCatalog {
		if g.Enabled {
			games = append(games, g)
		}
	}
	return games
}

// PlayURL builds the launch link for a session. The session id rides along as
// a query param; the client echoes it back in the completion report.
func (s *CatalogService) PlayURL(sess *models.Session) string {
	return fmt.Sprintf("%s/%s?session=%s", s.playBaseURL, sess.GameID, sess.ID)
}

// ChallengeURL builds a friend-challenge deep link for a game.
func (s *CatalogService) ChallengeURL(gameID, challengeID string) string {
	return fmt.Sprintf("%s/%s?challenge=%s", s.playBaseURL, gameID, challengeID)
}
