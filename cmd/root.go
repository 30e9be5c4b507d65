package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"planner-server/confs"
	"planner-server/logging"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the planner application
var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Personal task and calendar server",
	Long: `planner serves a JSON API for personal tasks, calendar events and
due-task notifications.

Settings come from the environment (and a .env file when present); the
flags below override them.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// storage flags shared by every command that opens the store
var globalFlags struct {
	dbBackend   string
	dbDriver    string
	databaseURL string
	logLevel    string
	logFormat   string
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "planner version %s\n" .Version}}`)

	// serve is the default command
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.dbBackend, "db-backend", "", "storage backend: gorm or sql (env DB_BACKEND)")
	pf.StringVar(&globalFlags.dbDriver, "db-driver", "", "gorm driver: sqlite or postgres (env DB_DRIVER)")
	pf.StringVar(&globalFlags.databaseURL, "database-url", "", "sqlite database path (env DATABASE_URL)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "text or json (env LOG_FORMAT)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() (*confs.Config, *slog.Logger, error) {
	cfg, err := confs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	applyGlobalFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func applyGlobalFlags(cfg *confs.Config) {
	if globalFlags.dbBackend != "" {
		cfg.DBBackend = globalFlags.dbBackend
	}
	if globalFlags.dbDriver != "" {
		cfg.DBDriver = globalFlags.dbDriver
	}
	if globalFlags.databaseURL != "" {
		cfg.DatabaseURL = globalFlags.databaseURL
	}
	if globalFlags.logLevel != "" {
		cfg.LogLevel = globalFlags.logLevel
	}
	if globalFlags.logFormat != "" {
		cfg.LogFormat = globalFlags.logFormat
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner version %s\n", version)
		},
	}
}
