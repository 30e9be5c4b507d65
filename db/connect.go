package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"planner-server/confs"
	"planner-server/entities"
	"planner-server/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the gorm database selected by cfg.DBDriver and migrates
// the planner schema.
func Connect(cfg *confs.Config, logger *slog.Logger) (Database, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case confs.DriverPostgres:
		logger.Info("connecting to postgres database")
		dialector = postgres.Open(cfg.PostgresDSN)
	case confs.DriverSQLite:
		if err := ensureDirForSQLite(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("opening sqlite database", "path", cfg.DatabaseURL)
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.Gorm(logger, cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.DBDriver == confs.DriverSQLite {
		// a single writer avoids "database is locked" under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	logger.Info("running database migrations")
	if err := db.AutoMigrate(&entities.User{}, &entities.Task{}, &entities.CalendarEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormDatabase{DB: db}, nil
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
