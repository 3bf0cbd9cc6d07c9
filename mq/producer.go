package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/amqp"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/message"
	"github.com/rabbitmq/rabbitmq-stream-go-client/pkg/stream"

	"github.com/solcore-labs/corecollection/config"
)

// Producer publishes indexer events to a RabbitMQ super stream.
// One SuperStreamProducer is kept per stream name.
type Producer struct {
	env        *stream.Environment
	stream     string
	partitions int
	logger     *slog.Logger

	declareOnce sync.Once
	declareErr  error
	producers   sync.Map // map[stream]*stream.SuperStreamProducer
}

// NewProducer connects to the stream environment described by cfg.
func NewProducer(cfg config.RabbitMQConfig, logger *slog.Logger) (*Producer, error) {
	env, err := newEnvironment(cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{
		env:        env,
		stream:     cfg.Stream,
		partitions: cfg.Partitions,
		logger:     logger.With("module", "mq"),
	}, nil
}

func newEnvironment(cfg config.RabbitMQConfig) (*stream.Environment, error) {
	env, err := stream.NewEnvironment(stream.NewEnvironmentOptions().
		SetHost(cfg.Host).
		SetPort(cfg.Port).
		SetVHost(cfg.VHost).
		SetUser(cfg.User).
		SetPassword(cfg.Password))
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}
	return env, nil
}

// DeclareStream creates the super stream with the given number of partitions.
// An existing stream is left untouched.
func (p *Producer) DeclareStream(name string, partitions int) error {
	if partitions < 1 {
		partitions = 1
	}
	err := p.env.DeclareSuperStream(name,
		stream.NewPartitionsOptions(partitions).
			SetMaxLengthBytes(stream.ByteCapacity{}.GB(2)))
	if err != nil && !errors.Is(err, stream.StreamAlreadyExists) {
		return err
	}
	return nil
}

// DeleteStream removes a super stream, mostly for tests.
func (p *Producer) DeleteStream(name string) error {
	if err := p.env.DeleteSuperStream(name); err != nil {
		return fmt.Errorf("failed to delete stream: %w", err)
	}
	return nil
}

func (p *Producer) producerFor(name string) (*stream.SuperStreamProducer, error) {
	if val, ok := p.producers.Load(name); ok {
		return val.(*stream.SuperStreamProducer), nil
	}
	prod, err := p.env.NewSuperStreamProducer(name,
		stream.NewSuperStreamProducerOptions(
			stream.NewHashRoutingStrategy(func(msg message.StreamMessage) string {
				return msg.GetMessageProperties().GroupID
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	actual, loaded := p.producers.LoadOrStore(name, prod)
	if loaded {
		_ = prod.Close()
	}
	return actual.(*stream.SuperStreamProducer), nil
}

// Publish sends event to the configured stream. Events of one collection
// land on the same partition so consumers see them in order.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.declareOnce.Do(func() {
		p.declareErr = p.DeclareStream(p.stream, p.partitions)
	})
	if p.declareErr != nil {
		return fmt.Errorf("failed to declare stream: %w", p.declareErr)
	}

	prod, err := p.producerFor(p.stream)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := amqp.NewMessage(data)
	msg.Properties = &amqp.MessageProperties{
		MessageID: event.ID,
		GroupID:   event.RoutingKey(),
		Subject:   string(event.Kind),
	}

	if err := prod.Send(msg); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	p.logger.Debug("event published",
		slog.String("kind", string(event.Kind)),
		slog.String("id", event.ID),
		slog.Int64("slot", event.Slot))
	return nil
}

// Close shuts down every producer and then the environment, returning the
// first error encountered.
func (p *Producer) Close() error {
	var firstErr error
	p.producers.Range(func(key, value any) bool {
		if prod, ok := value.(*stream.SuperStreamProducer); ok && prod != nil {
			if err := prod.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	if p.env != nil {
		if err := p.env.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
