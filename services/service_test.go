package services

import (
	"fmt"
	"testing"
	"time"

	"season-economy-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns an isolated in-memory database migrated with the economy
// schema. SeasonPlayer is excluded: its column default is postgres-only, and
// the tests that need names use a stub resolver instead.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Season{},
		&models.PlayerSeasonStats{},
		&models.LeaderboardEntry{},
		&models.SeasonReward{},
		&models.SeasonTransaction{},
		&models.EnergyData{},
		&models.ElementalEssences{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// seedSeason inserts an active season covering now and returns it.
func seedSeason(t *testing.T, db *gorm.DB) *models.Season {
	t.Helper()

	now := time.Now().UTC()
	season := models.Season{
		ID:        uuid.NewString(),
		Slug:      "test-season-" + uuid.NewString()[:8],
		Name:      "Test Season",
		Status:    models.SeasonStatusActive,
		StartTime: now.Add(-24 * time.Hour),
		EndTime:   now.Add(24 * time.Hour),
	}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("seed season: %v", err)
	}
	return &season
}
