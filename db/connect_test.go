package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/confs"
	"planner-server/logging"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "planner.db")
	cfg := &confs.Config{DBDriver: confs.DriverSQLite, DatabaseURL: path, LogLevel: "error"}

	database, err := Connect(cfg, logging.New("error", "text", io.Discard))
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{"users", "tasks", "calendar_events"} {
		assert.True(t, database.GetDB().Migrator().HasTable(table), table)
	}
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(&confs.Config{DBDriver: "oracle"}, logging.New("error", "text", io.Discard))
	assert.Error(t, err)
}

func TestEnsureDirForSQLite_SkipsMemory(t *testing.T) {
	assert.NoError(t, ensureDirForSQLite("file::memory:?cache=shared"))
	assert.NoError(t, ensureDirForSQLite("planner.db"))
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), conn))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }
	assert.EqualError(t, RunMigrations(context.Background(), conn), "boom")
}
