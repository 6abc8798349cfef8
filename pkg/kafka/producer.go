package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

// ProducerConfig holds Kafka writer settings.
type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes.
type Producer struct {
	writer  MessageWriter
	brokers []string
	logger  *slog.Logger
}

// NewProducer builds a producer on a kafka-go writer. Topics are chosen per
// message, so the writer has none set.
func NewProducer(cfg ProducerConfig, logger *slog.Logger) *Producer {
	batch := cfg.BatchTimeout
	if batch <= 0 {
		batch = 10 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batch,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(w, cfg.Brokers, logger)
}

// NewProducerWithWriter builds a producer on an existing writer.
func NewProducerWithWriter(w MessageWriter, brokers []string, logger *slog.Logger) *Producer {
	return &Producer{writer: w, brokers: brokers, logger: logger}
}

// Publish writes event to topic keyed by its aggregate ID, so all events
// for one aggregate land on the same partition. The active trace context
// is injected into the message headers.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(event.Type)},
		{Key: "source", Value: []byte(event.Source)},
	}
	if event.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: "correlation_id", Value: []byte(event.CorrelationID)})
	}
	otel.GetTextMapPropagator().Inject(ctx, NewHeaderCarrier(&headers))

	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(event.AggregateID),
		Value:   value,
		Headers: headers,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		publishErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish %s to %s: %w", event.Type, topic, err)
	}
	messagesPublished.WithLabelValues(topic).Inc()

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("event_type", event.Type),
		slog.String("aggregate_id", event.AggregateID),
	)
	return nil
}

// Ping reports whether at least one broker answers a metadata request.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}
	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("kafka: brokers unreachable: %w", lastErr)
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	return p.writer.Close()
}
