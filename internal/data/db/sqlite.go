package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Database is the connection the app runs on.
type Database interface {
	DB() *gorm.DB
	Dialect() string
	Close() error
}

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteService opens a file-backed or in-memory SQLite database for
// local development. A single connection keeps in-memory databases shared.
func NewSQLiteService(logg *logger.Logger, path string) (*SQLiteService, error) {
	serviceLog := logg.With("service", "SQLiteService")
	path = strings.TrimSpace(path)
	if path == "" {
		path = "ragdash.db"
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(serviceLog))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	serviceLog.Info("Opened SQLite", "path", path)
	return &SQLiteService{db: db, log: serviceLog}, nil
}

func (s *SQLiteService) DB() *gorm.DB { return s.db }

func (s *SQLiteService) Dialect() string { return DialectSQLite }

func (s *SQLiteService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open connects using the configured driver.
func Open(log *logger.Logger, driver string, pg PostgresConfig, sqlitePath string) (Database, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DialectPostgres:
		return NewPostgresService(log, pg)
	case DialectSQLite:
		return NewSQLiteService(log, sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (allowed: %q, %q)", driver, DialectPostgres, DialectSQLite)
	}
}
