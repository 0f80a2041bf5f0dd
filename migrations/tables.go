package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   constants.TableUsers,
		RunSQL: func(ctx context.Context, tx *sqlx.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL DEFAULT '',
					role VARCHAR(20) NOT NULL DEFAULT 'user',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_email UNIQUE (email)
				)
			`
			if tx.DriverName() == constants.DriverMySQL {
				query = `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL DEFAULT '',
					role VARCHAR(20) NOT NULL DEFAULT 'user',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
					CONSTRAINT idx_email UNIQUE (email)
				) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
			`
			}
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createUsersEmailIndex indexes LOWER(email), which every login lookup filters on.
// MySQL compares emails case-insensitively under its collation and uses idx_email.
func createUsersEmailIndex() Migration {
	return Migration{
		Name:        "create_users_email_lower_index",
		Description: "Indexes users by lowercased email",
		RunSQL: func(ctx context.Context, tx *sqlx.Tx) error {
			if tx.DriverName() == constants.DriverMySQL {
				return nil
			}
			_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))`)
			return err
		},
	}
}
