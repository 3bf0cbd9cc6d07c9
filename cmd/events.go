package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/log"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/types"
)

func eventsCmd() *cobra.Command {
	var subscription, name string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print indexer events from the stream",
		Long: `
Print indexer events from the RabbitMQ stream, one JSON object per line.

--subscription is "first", "last" or "slot:<n>" to start from a given slot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			metrics.Init(cfg.GetCluster())
			mqCfg := cfg.GetRabbitMQConfig()
			if !mqCfg.Enabled() {
				return types.NewValidationError("RABBITMQ_HOST", "required field is missing")
			}
			if _, err := mq.ParseStartPosition(subscription); err != nil {
				return err
			}

			logger := log.NewLogger(cfg)
			consumer, err := mq.NewConsumer(*mqCfg, name, logger)
			if err != nil {
				return err
			}
			defer consumer.Close() //nolint:errcheck

			enc := json.NewEncoder(cmd.OutOrStdout())
			err = consumer.Subscribe(subscription, func(event mq.Event) {
				if err := enc.Encode(event); err != nil {
					logger.Warn("failed to print event", slog.Any("error", err))
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&subscription, "subscription", "last", `where to start: "first", "last" or "slot:<n>"`)
	cmd.Flags().StringVar(&name, "name", "corecollection-events", "consumer name")

	return cmd
}
