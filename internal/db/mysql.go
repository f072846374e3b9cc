package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/emblabrowall/donosti-guide/internal/config"
	_ "github.com/go-sql-driver/mysql"
	upperdb "github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

// NewMySQLSession opens an upper/db session over go-sql-driver/mysql
func NewMySQLSession(cfg *config.Config) (upperdb.Session, error) {
	sqlDB, err := sql.Open("mysql", cfg.GetMySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	if lifetime, err := time.ParseDuration(cfg.Store.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to reach mysql store: %w", err)
	}

	sess, err := mysql.New(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create mysql session: %w", err)
	}
	return sess, nil
}
