package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptPasswordFromPipe(t *testing.T) {
	pw, err := promptPassword(strings.NewReader("hunter2\nignored\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	pw, err = promptPassword(strings.NewReader("no-newline"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "no-newline", pw)

	_, err = promptPassword(strings.NewReader("\n"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestUserAddAndMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "planner.db")
	t.Setenv("DB_BACKEND", "gorm")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", dbPath)
	t.Setenv("LOG_LEVEL", "error")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader("pw\n"))
	rootCmd.SetArgs([]string{"user", "add", "--username", "alice", "--email", "alice@example.com"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "created user alice")

	rootCmd.SetIn(strings.NewReader("pw\n"))
	rootCmd.SetArgs([]string{"user", "add", "--username", "alice"})
	assert.Error(t, rootCmd.Execute())

	out.Reset()
	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "schema is up to date (gorm backend)")
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "planner version 1.2.3\n", out.String())
}
