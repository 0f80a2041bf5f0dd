// Package database provides the connection pool and transaction helpers.
// The pool wraps sqlx so repositories can scan into tagged structs and
// write portable queries that are rebound per driver.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/inkwell-users/internal/config"
	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// Pool represents a database connection pool
type Pool struct {
	*sqlx.DB
}

var (
	// dbPool is the global database connection pool
	dbPool *Pool
)

// Connect opens a connection pool for the configured driver and verifies it.
// For MySQL the database is created first if it does not exist.
func Connect(cfg *config.AppConfig) (*Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DBConnectionTimeout)
	defer cancel()

	driver := cfg.Database.Driver
	if driver == "" {
		driver = constants.DefaultDBDriver
	}

	log.Info().
		Str("driver", driver).
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Str("user", cfg.Database.User).
		Msg("Connecting to database")

	if driver == constants.DriverMySQL {
		if err := ensureMySQLDatabase(ctx, cfg.Database); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(driver, cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MinConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", driver).Msg("Successfully connected to database")

	dbPool = &Pool{DB: db}
	return dbPool, nil
}

// ensureMySQLDatabase creates the configured MySQL database if it is missing.
func ensureMySQLDatabase(ctx context.Context, settings config.DatabaseSettings) error {
	root := settings
	root.Name = ""

	rootDB, err := sql.Open(constants.DriverMySQL, root.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to root database: %w", err)
	}
	defer rootDB.Close()

	if _, err := rootDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", settings.Name)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	log.Info().Msgf("Ensured database '%s' exists", settings.Name)
	return nil
}

// NewPool wraps an existing *sql.DB opened with the named driver.
func NewPool(db *sql.DB, driver string) *Pool {
	return &Pool{DB: sqlx.NewDb(db, driver)}
}

// Get returns the global database connection pool
func Get() *Pool {
	if dbPool == nil {
		log.Fatal().Msg("database connection pool not initialized")
	}
	return dbPool
}

// Close closes the database connection pool
func (p *Pool) Close() {
	if p != nil && p.DB != nil {
		log.Info().Msg("Closing database connection pool")
		p.DB.Close()
	}
}

// IsMySQL reports whether the pool talks to MySQL.
func (p *Pool) IsMySQL() bool {
	return p.DriverName() == constants.DriverMySQL
}

// Transaction executes a function within a transaction
func (p *Pool) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}
