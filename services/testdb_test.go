package services

import (
	"os"
	"testing"

	"game-arcade-system/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
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
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() {
		// Clean up test data
		db.Exec("DELETE FROM score_entries")
		db.Exec("DELETE FROM personal_bests")
		db.Exec("DELETE FROM quests")
		db.Exec("DELETE FROM user_achievements")
		db.Exec("DELETE FROM user_wallets")
		db.Exec("DELETE FROM chat_members")
		db.Exec("DELETE FROM arcade_users")
	})
	return db
}
