package kafka

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nova-commerce/internal/infrastructure/store"
)

func TestToMessage_KeysAndHeaders(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	event := store.Event{
		ID:            "evt-1",
		AggregateID:   "#NV1001",
		AggregateType: "Order",
		EventType:     "OrderPlaced",
		Data:          json.RawMessage(`{"order_id":"#NV1001"}`),
		Timestamp:     at,
		Version:       1,
	}

	msg, err := toMessage(event)

	require.NoError(t, err)
	assert.Equal(t, "#NV1001", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	aggType, _ := headerValue(msg, HeaderAggregateType)
	evType, _ := headerValue(msg, HeaderEventType)
	assert.Equal(t, "Order", aggType)
	assert.Equal(t, "OrderPlaced", evType)

	var decoded store.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventType, decoded.EventType)
	assert.JSONEq(t, `{"order_id":"#NV1001"}`, string(decoded.Data))
}

func TestConsumer_Accepts(t *testing.T) {
	withType := func(eventType string) kafka.Message {
		return kafka.Message{Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(eventType)}}}
	}

	tests := []struct {
		name string
		only []string
		msg  kafka.Message
		want bool
	}{
		{"no filter", nil, withType("OrderPlaced"), true},
		{"listed type", []string{"NotificationCreated"}, withType("NotificationCreated"), true},
		{"other type", []string{"NotificationCreated"}, withType("OrderPlaced"), false},
		{"missing header", []string{"NotificationCreated"}, kafka.Message{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Consumer{}
			if tt.only != nil {
				c.Only(tt.only...)
			}
			assert.Equal(t, tt.want, c.accepts(tt.msg))
		})
	}
}

func TestNewProducer_WritesAsynchronously(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "nova-events")

	assert.True(t, p.writer.Async)
	require.NotNil(t, p.writer.Completion)
	assert.NotPanics(t, func() {
		p.writer.Completion([]kafka.Message{{Key: []byte("#NV1001")}}, errors.New("broker down"))
		p.writer.Completion(nil, nil)
	})
}
