package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"planner-server/confs"
	"planner-server/db"
)

// Open connects the backend selected by cfg.DBBackend.
func Open(ctx context.Context, cfg *confs.Config, logger *slog.Logger) (Store, error) {
	switch cfg.DBBackend {
	case confs.BackendGorm:
		database, err := db.Connect(cfg, logger)
		if err != nil {
			return nil, err
		}
		return NewGormStore(database), nil
	case confs.BackendSQL:
		conn, err := db.OpenSQL(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(conn), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.DBBackend)
	}
}
