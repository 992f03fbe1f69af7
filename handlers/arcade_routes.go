// handlers/arcade_routes.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"game-arcade-system/middleware"
	"game-arcade-system/models"
	"game-arcade-system/services"
	"game-arcade-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupArcadeRoutes wires the play/complete/leaderboard surface. Public routes
// still pass gateway auth; secured routes additionally require user context.
func SetupArcadeRoutes(
	app *fiber.App,
	catalog *services.CatalogService,
	sessions *services.SessionStore,
	coordinator *services.ProgressionCoordinator,
	ranking *services.RankingService,
) {
	app.Get("/games", func(c *fiber.Ctx) error {
		return c.JSON(catalog.Enabled())
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		scope, err := parseScope(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, err := ranking.Rank(scope, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Post("/s/play", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			GameID string `json:"game_id"`
			ChatID int64  `json:"chat_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		game, err := catalog.Get(req.GameID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown or disabled game"})
		}

		sess := sessions.Create(userID, game.ID, req.ChatID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session":  sess,
			"play_url": catalog.PlayURL(sess),
		})
	})

	secured.Post("/s/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			SessionID string           `json:"session_id"`
			Score     int64            `json:"score"`
			GameStats map[string]int64 `json:"game_stats"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		result, err := coordinator.HandleCompletion(models.CompletionPayload{
			Kind:      models.PayloadGameCompleted,
			SessionID: req.SessionID,
			UserID:    userID,
			Score:     req.Score,
			GameStats: req.GameStats,
		})
		if err != nil {
			return completionError(c, err)
		}
		return c.JSON(result)
	})

	secured.Get("/s/leaderboard/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		scope, err := parseScope(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		pos, err := ranking.PositionOf(userID, scope)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute position",
				"cause": err.Error(),
			})
		}
		if pos == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no qualifying score yet"})
		}
		return c.JSON(pos)
	})

	secured.Post("/s/challenges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			GameID string `json:"game_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		game, err := catalog.Get(req.GameID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown or disabled game"})
		}

		challengeID := utils.NewChallengeID(userID, game.ID, time.Now())
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"challenge_id":  challengeID,
			"challenge_url": catalog.ChallengeURL(game.ID, challengeID),
		})
	})
}

func parseScope(c *fiber.Ctx) (services.RankScope, error) {
	scope := services.RankScope{GameID: c.Query("game_id")}
	if chat := c.Query("chat_id"); chat != "" {
		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return scope, errors.New("invalid chat_id")
		}
		scope.ChatID = chatID
	}
	return scope, nil
}

// completionError maps pipeline rejections to HTTP statuses. A duplicate
// submission is a benign no-op for the end user, not a failure.
func completionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAlreadyCompleted):
		return c.JSON(fiber.Map{"status": "already_completed"})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	case errors.Is(err, services.ErrSessionExpired):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "session expired, start a new game"})
	case errors.Is(err, services.ErrOwnerMismatch):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "session belongs to another user"})
	case errors.Is(err, models.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "temporary storage failure, please retry"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "completion failed",
			"cause": err.Error(),
		})
	}
}
