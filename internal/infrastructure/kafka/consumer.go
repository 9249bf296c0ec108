package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/logger"
)

// MessageHandler processes one record of the event feed.
type MessageHandler func(ctx context.Context, key, value []byte) error

type Consumer struct {
	reader *kafka.Reader
	only   map[string]bool
	log    *logrus.Entry
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader: reader,
		log:    logger.For("kafka").WithFields(logrus.Fields{"topic": topic, "group": groupID}),
	}
}

// Only restricts delivery to records whose event_type header is one of
// eventTypes. Records without the header are always delivered.
func (c *Consumer) Only(eventTypes ...string) *Consumer {
	c.only = make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		c.only[t] = true
	}
	return c
}

func (c *Consumer) accepts(msg kafka.Message) bool {
	if len(c.only) == 0 {
		return true
	}
	eventType, ok := headerValue(msg, HeaderEventType)
	return !ok || c.only[eventType]
}

func headerValue(msg kafka.Message, key string) (string, bool) {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value), true
		}
	}
	return "", false
}

// Consume blocks until ctx is cancelled. Handler errors are logged and the
// record is skipped.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.WithError(err).Error("failed to read message")
			continue
		}
		if !c.accepts(msg) {
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"key":       string(msg.Key),
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Error("failed to handle message")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
