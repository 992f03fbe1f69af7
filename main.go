package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"game-arcade-system/handlers"
	"game-arcade-system/middleware"
	"game-arcade-system/models"
	"game-arcade-system/services"
	"game-arcade-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// Only gateway requests are allowed through.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID, X-Service-Token",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.ArcadeUser{},
		&models.ChatMember{},
		&models.UserWallet{},
		&models.ScoreEntry{},
		&models.PersonalBest{},
		&models.Quest{},
		&models.UserAchievement{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	playBaseURL := os.Getenv("PLAY_BASE_URL")
	if playBaseURL == "" {
		log.Fatal("PLAY_BASE_URL environment variable not set")
	}

	catalog := services.NewCatalogService(playBaseURL)
	sessions := services.NewSessionStore()
	ledger := services.NewScoreLedger(db)
	quests := services.NewQuestEngine(db)
	achievements := services.NewAchievementService(db)
	ranking := services.NewRankingService(db)
	coordinator := services.NewProgressionCoordinator(db, sessions)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("ARCADE_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("ARCADE_SERVICE_TOKEN environment variable not set")
	}
	syncWorker := workers.NewArcadeUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	quests.StartQuestScheduler()

	handlers.SetupArcadeRoutes(app, catalog, sessions, coordinator, ranking)
	handlers.SetupProgressionRoutes(app, quests, achievements, ledger)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":5300"
	}
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Arcade service running on %s", addr)
	log.Println("Arcade user sync worker running")
	log.Println("Quest scheduler running (daily rollover + hourly sweep)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	sessions.Close()
	_ = app.Shutdown()
}
