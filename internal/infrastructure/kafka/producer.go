package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

// Header names carried by every record of the event feed.
const (
	HeaderAggregateType = "aggregate_type"
	HeaderEventType     = "event_type"
)

// Producer writes committed domain events to the feed. Records are keyed
// by aggregate id so one order, cart or shift stays on one partition.
//
// Writes are asynchronous: Publish only enqueues, and broker failures are
// logged when the batch completes. Close flushes pending records.
type Producer struct {
	writer *kafka.Writer
	log    *logrus.Entry
}

func NewProducer(brokers []string, topic string) *Producer {
	p := &Producer{log: logger.For("kafka").WithField("topic", topic)}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completed,
	}
	return p
}

func (p *Producer) completed(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		eventType, _ := headerValue(msg, HeaderEventType)
		p.log.WithError(err).WithFields(logrus.Fields{
			"key":        string(msg.Key),
			"event_type": eventType,
		}).Error("failed to deliver event")
	}
}

// Publish satisfies store.Publisher. It does not wait for the broker.
func (p *Producer) Publish(ctx context.Context, event store.Event) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.EventType, err)
	}
	return nil
}

func toMessage(event store.Event) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s: %w", event.EventType, err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: data,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: HeaderAggregateType, Value: []byte(event.AggregateType)},
			{Key: HeaderEventType, Value: []byte(event.EventType)},
		},
	}, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
