package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

const defaultPublishTimeout = 5 * time.Second

// Writer is the subset of kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON encoded audit events to one topic, keyed by entity ID
// so events of the same transaction stay ordered within a partition.
type KafkaPublisher struct {
	writer  Writer
	timeout time.Duration
}

// NewKafkaPublisher creates a publisher for brokerURL and topic.
func NewKafkaPublisher(brokerURL, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokerURL),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: defaultPublishTimeout,
	}
	return NewKafkaPublisherWithWriter(w)
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w, timeout: defaultPublishTimeout}
}

var _ portssvc.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", key, err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   b,
		Headers: []kafka.Header{{Key: "content-type", Value: []byte("application/json")}},
		Time:    time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s: %w", key, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

var _ portssvc.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a KafkaPublisher, or a NoopPublisher when brokerURL is empty.
func NewPublisher(brokerURL, topic string) portssvc.EventPublisher {
	if brokerURL == "" {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(brokerURL, topic)
}
