package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/config"
	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormDB opens a gorm connection chosen by the DATABASE_URL scheme:
// postgres:// and postgresql:// use the postgres dialector, sqlite:// opens
// a SQLite file (or ":memory:").
func NewGormDB(cfg *config.Config) (*gorm.DB, error) {
	dbURL := cfg.Store.URL

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		logger.Info().Msg("Connecting gorm store to PostgreSQL")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		logger.Info().Str("path", dsn).Msg("Connecting gorm store to SQLite")
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme for gorm store: must start with postgres:// or sqlite://")
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access gorm connection pool: %w", err)
	}

	if dialector.Name() == "sqlite" {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	}
	if lifetime, err := time.ParseDuration(cfg.Store.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	return gdb, nil
}
