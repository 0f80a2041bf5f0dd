package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/inkwell-users/internal/constants"
)

// AppConfig represents the entire application configuration
type AppConfig struct {
	App          AppSettings      `yaml:"app"`
	Database     DatabaseSettings `yaml:"database"`
	Server       ServerSettings   `yaml:"server"`
	Session      SessionSettings  `yaml:"session"`
	Mail         MailSettings     `yaml:"mail"`
	Reset        ResetSettings    `yaml:"reset"`
	PasswordHash HashSettings     `yaml:"password_hash"`
	Security     SecuritySettings `yaml:"security"`
	Seed         SeedSettings     `yaml:"seed"`
	Logging      LoggingSettings  `yaml:"logging"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings
type DatabaseSettings struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"`
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Name     string `yaml:"name" env:"DB_NAME"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	MaxConns int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// SessionSettings controls the login session cookie
type SessionSettings struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
	MaxAge     time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE"`
}

// MailSettings controls the reset email and the links it contains
type MailSettings struct {
	APIKey          string `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromAddress     string `yaml:"from_address" env:"MAIL_FROM_ADDRESS"`
	FromName        string `yaml:"from_name" env:"MAIL_FROM_NAME"`
	Production      bool   `yaml:"production" env:"PRODUCTION"`
	ProductionHost  string `yaml:"production_host" env:"MAIL_PRODUCTION_HOST"`
	DevelopmentHost string `yaml:"development_host" env:"MAIL_DEVELOPMENT_HOST"`
}

// ResetSettings controls password reset tokens
type ResetSettings struct {
	TokenTTL        time.Duration `yaml:"token_ttl" env:"RESET_TOKEN_TTL"`
	ConcealAccounts bool          `yaml:"conceal_accounts" env:"RESET_CONCEAL_ACCOUNTS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Algorithm   string `yaml:"algorithm" env:"HASH_ALGORITHM"`
	Cost        int    `yaml:"cost" env:"HASH_COST"`
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// SecuritySettings contains request throttling settings
type SecuritySettings struct {
	AuthRatePerSecond float64 `yaml:"auth_rate_per_second" env:"AUTH_RATE_PER_SECOND"`
	AuthBurst         int     `yaml:"auth_burst" env:"AUTH_BURST"`
}

// SeedSettings describes the accounts created by the seeder
type SeedSettings struct {
	AdminEmail       string   `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
	AdminPassword    string   `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	TestAccounts     []string `yaml:"test_accounts" env:"SEED_TEST_ACCOUNTS"`
	RunOnStartup     bool     `yaml:"run_on_startup" env:"SEED_ON_STARTUP"`
	MigrateOnStartup bool     `yaml:"migrate_on_startup" env:"MIGRATE_ON_STARTUP"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// ConnectionString returns the DSN for the configured driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	switch dbs.Driver {
	case constants.DriverMySQL:
		// username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}
		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	default:
		sslMode := dbs.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, sslMode,
		)
	}
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// BaseURL returns the host used when building links sent by email.
func (ms *MailSettings) BaseURL() string {
	if ms.Production {
		return strings.TrimRight(ms.ProductionHost, "/")
	}
	return strings.TrimRight(ms.DevelopmentHost, "/")
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

var (
	// cfg holds the current application configuration
	cfg *AppConfig
)

// Load loads the configuration from a config file and environment variables
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = config

	logConfig(config)

	return config, nil
}

// Get returns the current application configuration
func Get() *AppConfig {
	if cfg == nil {
		log.Fatal().Msg("configuration not loaded")
	}
	return cfg
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = "1.0.0"
	}

	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	if config.Database.Driver == "" {
		config.Database.Driver = constants.DefaultDBDriver
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// Session defaults
	if config.Session.CookieName == "" {
		config.Session.CookieName = constants.DefaultSessionCookie
	}
	if config.Session.MaxAge == 0 {
		config.Session.MaxAge = constants.DefaultSessionMaxAge
	}
	if config.Session.Secret == "" && !config.App.IsProduction() {
		config.Session.Secret = constants.SessionSecretPlaceholder
	}

	// Mail defaults
	if config.Mail.FromAddress == "" {
		config.Mail.FromAddress = constants.DefaultMailFromAddress
	}
	if config.Mail.FromName == "" {
		config.Mail.FromName = constants.DefaultMailFromName
	}
	if config.Mail.ProductionHost == "" {
		config.Mail.ProductionHost = constants.DefaultProductionHost
	}
	if config.Mail.DevelopmentHost == "" {
		config.Mail.DevelopmentHost = constants.DefaultDevelopmentHost
	}

	// Negative TTL means "never expire"; zero means "use the default".
	if config.Reset.TokenTTL == 0 {
		config.Reset.TokenTTL = constants.DefaultResetTokenTTL
	} else if config.Reset.TokenTTL < 0 {
		config.Reset.TokenTTL = 0
	}

	// Password hash defaults
	if config.PasswordHash.Algorithm == "" {
		config.PasswordHash.Algorithm = constants.DefaultHashAlgorithm
	}
	if config.PasswordHash.Cost == 0 {
		config.PasswordHash.Cost = constants.DefaultBcryptCost
	}
	if config.PasswordHash.Memory == 0 {
		// Lower for development, higher for production
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	if config.Security.AuthRatePerSecond == 0 {
		config.Security.AuthRatePerSecond = constants.DefaultAuthRatePerSecond
	}
	if config.Security.AuthBurst == 0 {
		config.Security.AuthBurst = constants.DefaultAuthBurst
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// In production, ensure we have a proper session secret
	if config.App.IsProduction() &&
		(config.Session.Secret == "" || config.Session.Secret == constants.SessionSecretPlaceholder) {
		return fmt.Errorf("session secret must be set in production")
	}

	switch config.Database.Driver {
	case constants.DriverPostgres, constants.DriverPgx, constants.DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	if config.Database.User == "" {
		return fmt.Errorf("database user must be set")
	}

	switch config.PasswordHash.Algorithm {
	case constants.HashAlgorithmBcrypt, constants.HashAlgorithmArgon2id:
	default:
		return fmt.Errorf("unsupported password hash algorithm: %s", config.PasswordHash.Algorithm)
	}

	if config.Security.AuthRatePerSecond < 0 || config.Security.AuthBurst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	mailKey := ""
	if config.Mail.APIKey != "" {
		mailKey = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_driver", config.Database.Driver).
		Str("db_host", config.Database.Host).
		Int("db_port", config.Database.Port).
		Str("db_name", config.Database.Name).
		Str("hash_algorithm", config.PasswordHash.Algorithm).
		Dur("session_max_age", config.Session.MaxAge).
		Dur("reset_token_ttl", config.Reset.TokenTTL).
		Str("mail_api_key", mailKey).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")
}
