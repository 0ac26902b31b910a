package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the ordered schema history. Entries are append-only;
// applied versions are recorded in schema_migrations and never re-run.
var migrations = []struct {
	version int
	name    string
	stmt    string
}{
	{
		version: 1,
		name:    "create_rosters",
		stmt: `CREATE TABLE IF NOT EXISTS rosters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			people_json TEXT NOT NULL,
			constraints_json TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	{
		version: 2,
		name:    "create_sessions",
		stmt: `CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			expires_at TEXT NOT NULL,
			revoked_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},
	{
		version: 3,
		name:    "index_rosters_name",
		stmt:    `CREATE INDEX IF NOT EXISTS idx_rosters_name ON rosters (name)`,
	},
}

// Migrate applies any schema migrations not yet recorded in the ledger.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	)`); err != nil {
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}

	for _, migration := range migrations {
		applied, err := cp.migrationApplied(ctx, migration.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, execErr := tx.Exec(migration.stmt); execErr != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", migration.version, migration.name, execErr)
			}
			if _, execErr := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				migration.version, migration.name,
			); execErr != nil {
				return fmt.Errorf("failed to record migration %d: %w", migration.version, execErr)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (cp *ConnectionPool) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := cp.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect migration ledger: %w", err)
	}
	return count > 0, nil
}
