// handlers/progression_routes.go
package handlers

import (
	"strconv"
	"strings"

	"game-arcade-system/middleware"
	"game-arcade-system/models"
	"game-arcade-system/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
)

// SetupProgressionRoutes wires the quest/achievement/profile surface.
func SetupProgressionRoutes(
	app *fiber.App,
	quests *services.QuestEngine,
	achievements *services.AchievementService,
	ledger *services.ScoreLedger,
) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/s/quests", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := quests.EnsureDailyQuests(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load quests",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"quests": list})
	})

	secured.Post("/s/quests/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			QuestIDs []string `json:"quest_ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		total, err := quests.Claim(userID, req.QuestIDs)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "claim failed",
				"cause": err.Error(),
			})
		}
		balance, err := quests.Balance(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load balance",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"total_reward": total,
			"balance":      balance,
		})
	})

	secured.Get("/s/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		list, err := achievements.ListWithStatus(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"achievements": list})
	})

	secured.Get("/s/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		balance, err := quests.Balance(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load balance",
				"cause": err.Error(),
			})
		}
		bests, err := ledger.Bests(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load personal bests",
				"cause": err.Error(),
			})
		}
		snap, err := ledger.Snapshot(userID, "")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load play totals",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"balance":          balance,
			"personal_bests":   bests,
			"total_plays":      snap.TotalPlays,
			"distinct_games":   snap.DistinctGames,
			"cumulative_score": snap.CumulativeScore,
		})
	})

	secured.Get("/s/games/:id/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		entries, err := ledger.History(userID, c.Params("id"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load history",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	secured.Get("/s/users/search", func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q", ""))
		if query == "" {
			return c.JSON([]models.ArcadeUser{})
		}
		folded := cases.Fold().String(query)

		var users []models.ArcadeUser
		if err := quests.DB.
			Where("username_folded LIKE ?", "%"+folded+"%").
			Limit(20).
			Find(&users).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "search failed",
				"cause": err.Error(),
			})
		}

		type UserSummary struct {
			ExternalUserID string `json:"external_user_id"`
			Username       string `json:"username"`
			DisplayName    string `json:"display_name,omitempty"`
		}
		res := make([]UserSummary, len(users))
		for i, u := range users {
			res[i] = UserSummary{
				ExternalUserID: u.ExternalUserID,
				Username:       u.Username,
				DisplayName:    u.DisplayName,
			}
		}
		return c.JSON(res)
	})
}
