package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/indexer"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/log"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/sentry_integration"
)

const shutdownTimeout = 10 * time.Second

func indexerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexer",
		Short: "Index the program's collections and assets",
		Long: `
Run the indexer.

The indexer follows every transaction of the program, stores the created collections
and assets in the database and, when RABBITMQ_HOST is set, publishes an event per change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			// before anything touches the database so the cluster label sticks
			metrics.Init(cfg.GetCluster())

			logger := log.NewLogger(cfg)
			if err := sentry_integration.Init(cfg, "indexer"); err != nil {
				logger.Warn("failed to init sentry", slog.Any("error", err))
			}
			defer sentry_integration.Flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := orm.OpenDB(cfg.GetDBConfig(), logger)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			metricsServer := metrics.NewServer(cfg, logger)
			go func() {
				if err := metricsServer.Start(); err != nil {
					logger.Error("metrics server stopped", slog.Any("error", err))
				}
			}()
			metrics.StartDBStatsUpdater(db, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = metricsServer.Shutdown(shutdownCtx)
			}()

			var publisher indexertypes.Publisher
			if mqCfg := cfg.GetRabbitMQConfig(); mqCfg.Enabled() {
				producer, err := mq.NewProducer(*mqCfg, logger)
				if err != nil {
					return err
				}
				defer producer.Close() //nolint:errcheck
				if err := producer.DeclareStream(mqCfg.Stream, mqCfg.Partitions); err != nil {
					return err
				}
				publisher = producer
			}

			client := rpc.New(cfg.GetClusterConfig().RpcUrl)
			err = indexer.New(cfg, logger, db, client, publisher).Run(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("indexer stopped")
				return nil
			}
			return err
		},
	}

	return cmd
}
