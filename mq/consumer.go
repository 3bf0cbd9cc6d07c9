package mq

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"

	"github.com/solcore-labs/corecollection/config"
)

// Consumer reads indexer events from a super stream as a single active
// consumer group.
type Consumer struct {
	env          *stream.Environment
	stream       string
	consumerName string
	consumer     *stream.SuperStreamConsumer
	logger       *slog.Logger
	mu           sync.Mutex
}

// NewConsumer connects a consumer named consumerName to the configured stream.
func NewConsumer(cfg config.RabbitMQConfig, consumerName string, logger *slog.Logger) (*Consumer, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		env:          env,
		stream:       cfg.Stream,
		consumerName: consumerName,
		logger:       logger.With("module", "mq", "consumer", consumerName),
	}, nil
}

// Subscribe starts delivering events to handler. See ParseStartPosition for
// the accepted subscription values. Malformed messages are logged and dropped.
func (c *Consumer) Subscribe(subscription string, handler func(Event)) error {
	start, err := ParseStartPosition(subscription)
	if err != nil {
		return err
	}

	offsetSpec := stream.OffsetSpecification{}.First()
	if start.Last {
		offsetSpec = stream.OffsetSpecification{}.Last()
	}

	handleMessages := func(_ stream.ConsumerContext, message *amqp.Message) {
		var event Event
		if err := json.Unmarshal(message.GetData(), &event); err != nil {
			c.logger.Warn("dropping malformed event", slog.Any("error", err))
			return
		}
		if !start.Accept(event.Slot) {
			return
		}
		handler(event)
	}

	sac := stream.NewSingleActiveConsumer(
		func(partition string, isActive bool) stream.OffsetSpecification {
			return offsetSpec
		},
	)

	consumer, err := c.env.NewSuperStreamConsumer(
		c.stream,
		handleMessages,
		stream.NewSuperStreamConsumerOptions().
			SetSingleActiveConsumer(sac.SetEnabled(true)).
			SetConsumerName(c.consumerName).
			SetOffset(offsetSpec),
	)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	c.mu.Lock()
	c.consumer = consumer
	c.mu.Unlock()

	c.logger.Info("subscribed", slog.String("stream", c.stream), slog.String("from", subscription))
	return nil
}

// Close closes the consumer and the environment.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.consumer != nil {
		if err := c.consumer.Close(); err != nil {
			firstErr = err
		}
	}
	if c.env != nil {
		if err := c.env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
