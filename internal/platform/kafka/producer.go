package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event is the envelope written to the topic.
type Event struct {
	ID        uuid.UUID   `json:"id"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	logger *zap.Logger
}

// NewProducer creates an async producer: Publish returns once the event is
// queued, and delivery failures are logged when the batch completes.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Producer{logger: logger}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completed,
	}
	return p
}

func (p *Producer) completed(messages []kafka.Message, err error) {
	if err != nil {
		p.logger.Warn("Failed to deliver events",
			zap.Int("count", len(messages)),
			zap.Error(err))
		return
	}
	p.logger.Debug("Events delivered", zap.Int("count", len(messages)))
}

func (p *Producer) Publish(ctx context.Context, eventType string, payload interface{}) error {
	value, err := json.Marshal(Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType), // Partition by event type
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NoOpProducer discards events when Kafka is disabled.
type NoOpProducer struct{}

func NewNoOpProducer() *NoOpProducer {
	return &NoOpProducer{}
}

func (NoOpProducer) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return nil
}

func (NoOpProducer) Close() error {
	return nil
}
