package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestPool opens a migrated database backed by a per-test temp file.
func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "planner_test.db")
	pool, err := Open(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return pool
}

func TestMigrateIsIdempotent(t *testing.T) {
	pool := newTestPool(t)

	// A second run must find every version recorded and change nothing.
	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}

	var count int
	err := pool.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("failed to read migration ledger: %v", err)
	}
	if count != len(migrations) {
		t.Fatalf("ledger has %d entries, want %d", count, len(migrations))
	}
}
