package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"centavo/internal/domain/connection"
)

// Publisher emits connection failure events to a Kafka topic so external
// consumers (alerting, analytics) can react to connectivity loss.
type Publisher struct {
	writer *kafkago.Writer
	log    zerolog.Logger
}

func NewPublisher(brokers []string, log zerolog.Logger) *Publisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        connection.TopicConnectionFailed,
		Balancer:     &kafkago.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	return &Publisher{
		writer: writer,
		log:    log.With().Str("component", "kafka_publisher").Logger(),
	}
}

func (p *Publisher) PublishConnectionFailed(ctx context.Context, event connection.FailedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal connection failure event: %w", err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.CheckedAt.UTC().Format(time.RFC3339)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish connection failure event: %w", err)
	}

	p.log.Debug().
		Int("failures", len(event.Errors)).
		Msg("Published connection failure event")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
