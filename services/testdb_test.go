package services

import (
	"path/filepath"
	"testing"

	"enb-blast-service/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.GameSession{},
		&models.ClaimRecord{},
		&models.TaskCompletion{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
