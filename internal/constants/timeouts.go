package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 10 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Maintenance
const (
	MaintenanceInterval = 10 * time.Minute
	MaintenanceTimeout  = 1 * time.Minute
)

// Session and token lifetimes
const (
	// DefaultSessionMaxAge matches the 6000000ms cookie max age of the login session.
	DefaultSessionMaxAge = 6000000 * time.Millisecond
	DefaultResetTokenTTL = 1 * time.Hour
)
