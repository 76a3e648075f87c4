package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

// Config holds database configuration
type Config struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"ssl_mode"`
}

// DB wraps the GORM database connection
type DB struct {
	*gorm.DB
}

// NewConfig creates a new database configuration from environment variables
func NewConfig() *Config {
	return &Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "capgains"),
		Password: getEnv("DB_PASSWORD", "capgains"),
		Name:     getEnv("DB_NAME", "capgains"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

// DSN renders the libpq connection string for c.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Connect establishes a GORM connection to the database
func Connect(config *Config) (*DB, error) {
	return ConnectDSN(config.DSN())
}

// ConnectDSN opens a Postgres connection from a ready-made DSN or URL.
func ConnectDSN(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db}, nil
}

// OpenSQLite opens a SQLite database and migrates the schema.
// Use ":memory:" for a throwaway store; it is pinned to a single connection so every query sees the same database.
func OpenSQLite(dsn string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	wrapped := &DB{db}
	if err := wrapped.MigrateSchema(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return wrapped, nil
}

// sqliteSchema mirrors migrations/001 and 002. Amount columns are TEXT so
// SQLite keeps the exact decimal text instead of coercing it to REAL.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id       TEXT     NOT NULL,
		instrument_key TEXT     NOT NULL,
		date           DATE     NOT NULL,
		type           TEXT     NOT NULL CHECK (type IN ('Buy', 'Sell')),
		units          TEXT     NOT NULL,
		price          TEXT     NOT NULL,
		fee            TEXT     NOT NULL DEFAULT '0',
		total_value    TEXT     NOT NULL,
		cost           TEXT     NOT NULL,
		fy             INTEGER  NOT NULL,
		notes          TEXT,
		import_batch   TEXT,
		created_at     DATETIME,
		updated_at     DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tx_scope ON transactions (owner_id, instrument_key, date, id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_fy ON transactions (fy)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_import_batch ON transactions (import_batch)`,
}

// MigrateSchema creates the transactions table and its indexes on SQLite.
// Production Postgres schemas are managed by cmd/migrate instead.
func (db *DB) MigrateSchema() error {
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks if the database connection is healthy
func (db *DB) Health() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetSQLDB returns the underlying *sql.DB
func (db *DB) GetSQLDB() (*sql.DB, error) {
	return db.DB.DB()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
