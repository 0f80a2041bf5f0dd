// Package migrations provides a framework for database schema management.
//
// Executed migrations are tracked in a dedicated table so every migration runs
// exactly once. A migration whose table already exists is recorded without
// running, which makes the process safe on databases created by hand.
package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/database"
)

// Migration represents a database migration.
type Migration struct {
	// Name is a unique identifier for the migration
	Name string
	// Description is a human-readable explanation of what the migration does
	Description string
	// TableName is the table created by this migration; empty for migrations
	// that alter existing tables and must always run
	TableName string
	// RunSQL executes the migration within a transaction. tx.DriverName()
	// selects the dialect.
	RunSQL func(ctx context.Context, tx *sqlx.Tx) error
}

// Migrator handles database migrations.
type Migrator struct {
	db         *database.Pool
	migrations []Migration
}

// NewMigrator creates a new migrator over the application's migrations.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

// RunMigrations runs all pending database migrations.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during migration, nil if successful
func (m *Migrator) RunMigrations(ctx context.Context) error {
	log.Info().Msg("Running database migrations")
	startTime := time.Now()

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	migrationsRun := 0
	migrationsRecorded := 0

	for _, migration := range m.migrations {
		if executed[migration.Name] {
			continue
		}

		if migration.TableName != "" {
			exists, err := m.tableExists(ctx, migration.TableName)
			if err != nil {
				return fmt.Errorf("failed to check if table %s exists: %w", migration.TableName, err)
			}

			if exists {
				log.Info().
					Str("migration", migration.Name).
					Str("table", migration.TableName).
					Msg("Table already exists, recording migration as completed")

				if err := m.recordMigration(ctx, m.db, migration); err != nil {
					return err
				}
				migrationsRecorded++
				continue
			}
		}

		log.Info().
			Str("migration", migration.Name).
			Str("table", migration.TableName).
			Msg("Running migration")

		if err := m.runMigration(ctx, migration); err != nil {
			return err
		}
		migrationsRun++
	}

	log.Info().
		Int("migrations_run", migrationsRun).
		Int("migrations_recorded", migrationsRecorded).
		Int("total_migrations", len(m.migrations)).
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// createMigrationsTable creates the migrations tracking table if it doesn't exist.
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + constants.TableMigrations + ` (
			name VARCHAR(255) PRIMARY KEY,
			description TEXT,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// getExecutedMigrations returns the names of executed migrations.
func (m *Migrator) getExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	var names []string
	query := `SELECT name FROM ` + constants.TableMigrations
	if err := m.db.SelectContext(ctx, &names, query); err != nil {
		return nil, err
	}

	executed := make(map[string]bool, len(names))
	for _, name := range names {
		executed[name] = true
	}
	return executed, nil
}

// runMigration runs a migration and records it within one transaction.
func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := migration.RunSQL(ctx, tx); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.Name, err)
		}
		return m.recordMigration(ctx, tx, migration)
	})
}

// recordMigration marks a migration as completed.
func (m *Migrator) recordMigration(ctx context.Context, q database.Querier, migration Migration) error {
	query := q.Rebind(`INSERT INTO ` + constants.TableMigrations + ` (name, description) VALUES (?, ?)`)
	if _, err := q.ExecContext(ctx, query, migration.Name, migration.Description); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
	}
	return nil
}

// tableExists checks if a table exists in the current database schema.
func (m *Migrator) tableExists(ctx context.Context, tableName string) (bool, error) {
	schema := "current_schema()"
	if m.db.IsMySQL() {
		schema = "DATABASE()"
	}

	query := m.db.Rebind(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = ` + schema + `
		AND table_name = ?
	`)

	var count int
	if err := m.db.GetContext(ctx, &count, query, tableName); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMigrations returns all migrations in the order they are applied.
func GetMigrations() []Migration {
	return []Migration{
		createUsersTable(),
		createUsersEmailIndex(),
	}
}
