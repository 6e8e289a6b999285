// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estatehub/internal/database"
)

// New returns a private in-memory database with models migrated. It is
// closed when the test ends.
func New(t testing.TB, models ...any) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.MemoryDSN(name), database.Options{LogLevel: logger.Silent})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}
	return db
}
