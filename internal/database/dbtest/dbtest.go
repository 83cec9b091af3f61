// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/pulse-social/pulse/internal/config"
	"github.com/pulse-social/pulse/internal/database"
)

// New returns a migrated in-memory database private to t. Foreign keys are
// enforced and the pool holds a single connection so the shared cache never
// reports a locked table.
func New(t testing.TB) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", URL: dsn}, false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB().DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}
