package events

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// kafkaPublisher writes operation events to a Kafka topic through an inbox
// channel drained by a single goroutine. Messages are keyed by cart ID so
// all events of one cart stay ordered within a partition.
type kafkaPublisher struct {
	writer *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger zerolog.Logger
}

// NewKafkaPublisher creates an async Kafka-backed publisher and starts its
// drain goroutine. Close flushes buffered events before returning.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	p := &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:  make(chan kafka.Message, 256),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "event-publisher").Logger(),
	}

	go p.drain()

	return p
}

func (p *kafkaPublisher) drain() {
	defer close(p.done)

	for msg := range p.inbox {
		if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
			p.logger.Warn().Err(err).Str("key", string(msg.Key)).Msg("failed to publish operation event")
		}
	}

	if err := p.writer.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close kafka writer")
	}
}

// Publish enqueues an event. Drops the event when the inbox is full rather
// than blocking the cart mutation path.
func (p *kafkaPublisher) Publish(event OperationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("cart_id", event.CartID).Msg("failed to marshal operation event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.CartID),
		Value: payload,
		Time:  event.OccurredAt,
	}

	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn().Str("cart_id", event.CartID).Msg("event inbox full, dropping operation event")
	}
}

// Close stops intake and waits for the drain goroutine to flush.
func (p *kafkaPublisher) Close() error {
	close(p.inbox)
	<-p.done
	return nil
}
