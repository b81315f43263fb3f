package app

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"knowledgevault/internal/model"
)

// newTestDB opens an in-memory database private to the calling test and
// migrates the full schema. cache=shared keeps the database alive across
// the pool's connections for the test's lifetime.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.DocumentAccess{},
		&model.Favorite{},
		&model.Conversation{},
		&model.Message{},
		&model.SearchQuery{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
