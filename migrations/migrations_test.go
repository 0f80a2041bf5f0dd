package migrations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
	"github.com/yasinhessnawi1/inkwell-users/internal/database"
	"github.com/yasinhessnawi1/inkwell-users/migrations"
)

// createMockPool creates a mock database pool for testing
func createMockPool(t *testing.T, driver string) (*database.Pool, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return database.NewPool(db, driver), mock
}

func TestNewMigrator(t *testing.T) {
	pool, _ := createMockPool(t, constants.DriverPostgres)

	assert.NotNil(t, migrations.NewMigrator(pool))
}

func TestGetMigrations(t *testing.T) {
	list := migrations.GetMigrations()
	require.NotEmpty(t, list)

	assert.Equal(t, "create_users_table", list[0].Name)
	assert.Equal(t, constants.TableUsers, list[0].TableName)

	names := make(map[string]bool)
	for _, migration := range list {
		assert.False(t, names[migration.Name], "duplicate migration name %s", migration.Name)
		names[migration.Name] = true
		assert.NotNil(t, migration.RunSQL)
	}
}

func TestRunMigrations(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		setup   func(sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name:   "Error - Create migrations table fails",
			driver: constants.DriverPostgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnError(errors.New("failed to create migrations table"))
			},
			wantErr: true,
		},
		{
			name:   "Error - Get executed migrations fails",
			driver: constants.DriverPostgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnError(errors.New("failed to get executed migrations"))
			},
			wantErr: true,
		},
		{
			name:   "Error - Table exists check fails",
			driver: constants.DriverPostgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))
				mock.ExpectQuery("SELECT COUNT.*FROM information_schema.tables").
					WillReturnError(errors.New("failed to check table existence"))
			},
			wantErr: true,
		},
		{
			name:   "Error - Migration fails and rolls back",
			driver: constants.DriverPostgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))
				mock.ExpectQuery("SELECT COUNT.*FROM information_schema.tables").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
					WillReturnError(errors.New("permission denied"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name:   "Success - Fresh postgres database",
			driver: constants.DriverPostgres,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))

				mock.ExpectQuery(`table_schema = current_schema\(\)`).
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`INSERT INTO schema_migrations \(name, description\) VALUES \(\$1, \$2\)`).
					WithArgs("create_users_table", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()

				mock.ExpectBegin()
				mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_users_email_lower").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO schema_migrations").
					WithArgs("create_users_email_lower_index", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Success - Existing mysql table is recorded",
			driver: constants.DriverMySQL,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}))

				mock.ExpectQuery(`table_schema = DATABASE\(\)`).
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec(`INSERT INTO schema_migrations \(name, description\) VALUES \(\?, \?\)`).
					WithArgs("create_users_table", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))

				// the index migration is a no-op on mysql but still recorded
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO schema_migrations").
					WithArgs("create_users_email_lower_index", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Success - Everything already executed",
			driver: constants.DriverPgx,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT name FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"name"}).
						AddRow("create_users_table").
						AddRow("create_users_email_lower_index"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, mock := createMockPool(t, tt.driver)
			tt.setup(mock)

			err := migrations.NewMigrator(pool).RunMigrations(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
