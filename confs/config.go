package confs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGorm = "gorm"
	BackendSQL  = "sql"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config keeps runtime settings for the planner server.
type Config struct {
	Host string
	Port string

	DBBackend   string
	DBDriver    string
	DatabaseURL string // sqlite file path
	PostgresDSN string

	SecretKey     string
	SessionTTL    time.Duration
	SecureCookies bool

	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// LoadConfig loads environment variables from a .env file if present and
// builds a Config from the environment with defaults.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not load .env", "error", err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Host:           env("HOST", "0.0.0.0"),
		Port:           env("PORT", "5000"),
		DBBackend:      strings.ToLower(env("DB_BACKEND", BackendGorm)),
		DatabaseURL:    env("DATABASE_URL", defaultSQLitePath(getenv)),
		SecretKey:      env("SECRET_KEY", "dev-key-please-change"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogFormat:      env("LOG_FORMAT", "text"),
		SecureCookies:  parseBool(getenv("SECURE_COOKIES"), false),
		MetricsEnabled: parseBool(getenv("METRICS_ENABLED"), true),
	}

	ttl, err := time.ParseDuration(env("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	if origins := getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	dsn, err := postgresDSN(getenv)
	if err != nil {
		return nil, err
	}
	cfg.PostgresDSN = dsn

	defaultDriver := DriverSQLite
	if dsn != "" {
		defaultDriver = DriverPostgres
	}
	cfg.DBDriver = strings.ToLower(env("DB_DRIVER", defaultDriver))

	return cfg, cfg.Validate()
}

// Validate checks that the backend selection is coherent.
func (c *Config) Validate() error {
	switch c.DBBackend {
	case BackendGorm:
		if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
			return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
		}
	case BackendSQL:
		// the sql backend always talks to postgres through pgx
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_BACKEND=sql requires DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
		}
	default:
		return fmt.Errorf("unsupported DB_BACKEND %q", c.DBBackend)
	}
	if c.DBBackend == BackendGorm && c.DBDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func defaultSQLitePath(getenv func(string) string) string {
	// serverless platforms only allow writes under /tmp
	if getenv("VERCEL") != "" {
		return filepath.Join("/tmp", "planner.db")
	}
	return "planner.db"
}

// postgresDSN returns DB_URL (with sslmode enforced) or a DSN built from the
// individual DB_* parameters. It returns "" when neither is configured.
func postgresDSN(getenv func(string) string) (string, error) {
	if dsn := strings.TrimSpace(getenv("DB_URL")); dsn != "" {
		// Hosted databases expect SSL unless told otherwise
		if !strings.Contains(dsn, "sslmode=") {
			if strings.Contains(dsn, "?") {
				dsn += "&sslmode=require"
			} else {
				dsn += "?sslmode=require"
			}
		}
		return dsn, nil
	}

	dbHost := getenv("DB_HOST")
	if dbHost == "" {
		return "", nil
	}
	dbPort := getenv("DB_PORT")
	dbUser := getenv("DB_USER")
	dbPassword := getenv("DB_PASSWORD")
	dbName := getenv("DB_NAME")
	if dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		return "", fmt.Errorf("missing required database configuration: DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	sslMode := "require"
	if dbHost == "localhost" || dbHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		dbHost, dbUser, dbPassword, dbName, dbPort, sslMode), nil
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
