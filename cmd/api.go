package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/api"
	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/log"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/sentry_integration"
)

func apiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the collection API server",
		Long: `
Run the collection API server.

This command starts the HTTP API over the indexed collections and assets.

You can configure database, cluster, logging, and server options via environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			// before anything touches the database so the cluster label sticks
			metrics.Init(cfg.GetCluster())

			logger := log.NewLogger(cfg)
			if err := sentry_integration.Init(cfg, "api"); err != nil {
				logger.Warn("failed to init sentry", slog.Any("error", err))
			}
			defer sentry_integration.Flush()

			db, err := orm.OpenDB(cfg.GetDBConfig(), logger)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			metricsServer := metrics.NewServer(cfg, logger)
			go func() {
				if err := metricsServer.Start(); err != nil {
					logger.Error("metrics server stopped", slog.Any("error", err))
				}
			}()
			metrics.StartDBStatsUpdater(db, logger)

			server := api.New(cfg, logger, db)

			// graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				logger.Info("shutting down API server...")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = metricsServer.Shutdown(ctx)
				if err := server.Shutdown(); err != nil {
					logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
				}
			}()

			return server.Start()
		},
	}

	return cmd
}
