package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"season-quiz-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory database. A single connection keeps
// SQLite from returning busy errors when tests hammer it from goroutines;
// the unique indexes still arbitrate races exactly like postgres would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Season{},
		&models.Question{},
		&models.SeasonProgress{},
		&models.QuestionAttempt{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedSeason(t *testing.T, db *gorm.DB, start, end time.Time) *models.Season {
	t.Helper()
	season := models.Season{Title: "Test Season", StartDate: start, EndDate: end}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("seed season: %v", err)
	}
	return &season
}

// seedActiveSeason creates a season whose window contains the current time.
func seedActiveSeason(t *testing.T, db *gorm.DB) *models.Season {
	t.Helper()
	now := time.Now()
	return seedSeason(t, db, now.Add(-time.Hour), now.Add(time.Hour))
}

func seedQuestion(t *testing.T, db *gorm.DB, seasonID uint, orderIndex int, answer string) *models.Question {
	t.Helper()
	question := models.Question{
		SeasonID:    seasonID,
		Content:     fmt.Sprintf("question %d", orderIndex),
		Answer:      answer,
		Explanation: "because",
		OrderIndex:  orderIndex,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return &question
}
