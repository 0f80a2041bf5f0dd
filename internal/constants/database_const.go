// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table names, column names and driver identifiers.
// Keeping them here makes SQL construction and logging consistent across repositories.
package constants

// Database Drivers identify the database/sql driver names accepted in configuration.
const (
	// DriverPostgres selects github.com/lib/pq.
	DriverPostgres = "postgres"

	// DriverPgx selects the github.com/jackc/pgx/v5 stdlib adapter.
	DriverPgx = "pgx"

	// DriverMySQL selects github.com/go-sql-driver/mysql.
	DriverMySQL = "mysql"
)

// Table Names define the database tables used by the application.
const (
	// TableUsers stores user accounts and credentials.
	TableUsers = "users"

	// TableMigrations records executed schema migrations.
	TableMigrations = "schema_migrations"

	// TableSeeds records executed seed functions.
	TableSeeds = "seeds"
)

// Column Names define frequently referenced column names.
const (
	ColumnEmail        = "email"
	ColumnPasswordHash = "password_hash"
)

// Database Error Codes identify driver-specific constraint violations.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// MySQLErrorDuplicateEntry is the MySQL error number for duplicate entries.
	MySQLErrorDuplicateEntry = 1062
)
