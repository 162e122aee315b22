package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/convoyrelief/convoyd/pkg/config"
)

// ErrNoURL is returned by Connect when neither Config.URL nor DATABASE_URL
// names a database.
var ErrNoURL = errors.New("DATABASE_URL environment variable is required")

// Config selects the database Connect opens.
//
// URL falls back to DATABASE_URL. LogLevel falls back to CONVOYD_LOG_LEVEL
// and decides which statements gorm prints.
type Config struct {
	URL      string
	LogLevel string
}

// Connect opens a gorm handle on the configured Postgres database
func Connect(cfg Config) (*gorm.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = URL()
	}
	if dsn == "" {
		return nil, ErrNoURL
	}

	// no implicit prepared statements
	dialector := postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(sqlLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

// sqlLogLevel maps a convoyd log level onto gorm's. Statements are only
// printed at debug.
func sqlLogLevel(level string) logger.LogLevel {
	if level == "" {
		level = os.Getenv(config.EnvLogLevel)
	}
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// URL returns DATABASE_URL, or "" when unset
func URL() string {
	return os.Getenv(config.EnvDatabaseURL)
}
