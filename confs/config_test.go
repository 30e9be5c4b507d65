package confs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, BackendGorm, cfg.DBBackend)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "planner.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestFromEnv_VercelUsesTmp(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"VERCEL": "1"}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/planner.db", cfg.DatabaseURL)
}

func TestFromEnv_DBURLSelectsPostgres(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"DB_URL": "postgres://u:p@db.example.com/planner"}))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@db.example.com/planner?sslmode=require", cfg.PostgresDSN)

	cfg, err = FromEnv(envMap(map[string]string{"DB_URL": "postgres://h/db?sslmode=disable"}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://h/db?sslmode=disable", cfg.PostgresDSN)
}

func TestFromEnv_IndividualParams(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DB_HOST": "localhost", "DB_PORT": "5432", "DB_USER": "u", "DB_PASSWORD": "p", "DB_NAME": "planner",
	}))
	require.NoError(t, err)
	assert.Contains(t, cfg.PostgresDSN, "sslmode=disable")
	assert.Contains(t, cfg.PostgresDSN, "dbname=planner")

	_, err = FromEnv(envMap(map[string]string{"DB_HOST": "db"}))
	assert.Error(t, err)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"backend":      {"DB_BACKEND": "mongo"},
		"driver":       {"DB_DRIVER": "mysql"},
		"sql no dsn":   {"DB_BACKEND": "sql"},
		"pg no dsn":    {"DB_DRIVER": "postgres"},
		"ttl":          {"SESSION_TTL": "forever"},
		"ttl negative": {"SESSION_TTL": "-1h"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":            "8080",
		"CORS_ORIGINS":    "http://a.test, http://b.test",
		"METRICS_ENABLED": "false",
		"SECURE_COOKIES":  "true",
		"SESSION_TTL":     "90m",
	}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}
