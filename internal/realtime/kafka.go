package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards order events to a Kafka topic, keyed by order ID so every event
// for one order lands on the same partition. Product events are ignored.
type KafkaPublisher struct {
	writer MessageWriter
	inbox  chan kafka.Message
	logger zerolog.Logger
}

// NewKafkaWriter creates an asynchronous writer for topic. Delivery failures are logged.
func NewKafkaWriter(brokers []string, topic string, logger zerolog.Logger) *kafka.Writer {
	log := logger.With().Str("component", "kafka_writer").Str("topic", topic).Logger()
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("failed to deliver events")
			}
		},
	}
}

// NewKafkaPublisher creates a publisher that buffers up to queueSize messages.
func NewKafkaPublisher(writer MessageWriter, queueSize int, logger zerolog.Logger) *KafkaPublisher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &KafkaPublisher{
		writer: writer,
		inbox:  make(chan kafka.Message, queueSize),
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// Publish implements Publisher. The event is dropped when the inbox is full.
func (p *KafkaPublisher) Publish(evt Event) {
	if !evt.Event.IsOrderEvent() {
		return
	}

	value, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error().Err(err).Str("event", string(evt.Event)).Msg("failed to encode event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.Key),
		Value: value,
		Time:  evt.Timestamp,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(evt.Event)},
		},
	}

	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn().Str("event", string(evt.Event)).Str("key", evt.Key).Msg("kafka inbox full, event dropped")
	}
}

// Run writes queued messages until ctx is cancelled, then flushes what is left and closes the writer.
func (p *KafkaPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return nil
		case msg := <-p.inbox:
			p.write(context.Background(), msg)
		}
	}
}

func (p *KafkaPublisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case msg := <-p.inbox:
			p.write(ctx, msg)
		default:
			if err := p.writer.Close(); err != nil {
				p.logger.Error().Err(err).Msg("failed to close kafka writer")
			}
			return
		}
	}
}

func (p *KafkaPublisher) write(ctx context.Context, msg kafka.Message) {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("key", string(msg.Key)).Msg("failed to write event")
	}
}
