package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"planner-server/repositories"
	"planner-server/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		host    string
		port    string
		metrics bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the planner HTTP server. The schema is migrated on start-up.
The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("metrics") {
				cfg.MetricsEnabled = metrics
			}
			if !debug {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := repositories.Open(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			return server.NewServer(cfg, store, logger).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "address to bind (env HOST)")
	cmd.Flags().StringVar(&port, "port", "5000", "port to listen on (env PORT)")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose /metrics (env METRICS_ENABLED)")
	cmd.Flags().BoolVar(&debug, "debug", false, "run gin in debug mode")

	return cmd
}
