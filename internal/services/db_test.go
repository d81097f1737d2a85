package services

import (
	"strings"
	"testing"

	"github.com/braikhq/braik/internal/models"
	"github.com/braikhq/braik/internal/permissions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. The database is named after the test so parallel suites never
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// teamMember builds a member and their resolved viewer in one step.
func teamMember(teamID, userID uint, role permissions.Role) (permissions.Member, permissions.Viewer) {
	m := permissions.Member{UserID: userID, TeamID: teamID, Role: role}
	return m, permissions.NewViewer(m, nil, nil)
}
