package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/logger"
)

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Publisher forwards committed events to an external feed such as Kafka.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber receives committed events in process.
type Subscriber func(ctx context.Context, event Event)

// EventStore records domain events in memory and delivers them to
// subscribers and the optional publisher.
//
// Between Begin and Commit, appended events are held back. Rollback drops
// them so observers never see effects of a failed operation.
type EventStore struct {
	mu          sync.RWMutex
	events      map[string][]Event // aggregateID -> events
	all         []Event
	publisher   Publisher
	subscribers []Subscriber

	inTx    bool
	txStart int

	log *logrus.Entry
}

func NewEventStore(publisher Publisher) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		publisher: publisher,
		log:       logger.For("events"),
	}
}

// Subscribe registers an in-process observer of committed events.
func (es *EventStore) Subscribe(sub Subscriber) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.subscribers = append(es.subscribers, sub)
}

// Append stores an event. Outside a transaction it is delivered at once.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	version := len(es.events[aggregateID]) + 1
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}
	es.events[aggregateID] = append(es.events[aggregateID], event)
	es.all = append(es.all, event)
	deferred := es.inTx
	es.mu.Unlock()

	if !deferred {
		es.deliver(ctx, []Event{event})
	}
	return &event, nil
}

// Begin starts holding back appended events until Commit or Rollback.
// Callers serialize transactions themselves.
func (es *EventStore) Begin() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.inTx = true
	es.txStart = len(es.all)
}

// Commit delivers every event appended since Begin.
func (es *EventStore) Commit(ctx context.Context) {
	es.mu.Lock()
	if !es.inTx {
		es.mu.Unlock()
		return
	}
	pending := make([]Event, len(es.all)-es.txStart)
	copy(pending, es.all[es.txStart:])
	es.inTx = false
	es.mu.Unlock()

	es.deliver(ctx, pending)
}

// Rollback discards every event appended since Begin.
func (es *EventStore) Rollback() {
	es.mu.Lock()
	defer es.mu.Unlock()
	if !es.inTx {
		return
	}
	for i := len(es.all) - 1; i >= es.txStart; i-- {
		id := es.all[i].AggregateID
		es.events[id] = es.events[id][:len(es.events[id])-1]
		if len(es.events[id]) == 0 {
			delete(es.events, id)
		}
	}
	es.all = es.all[:es.txStart]
	es.inTx = false
}

func (es *EventStore) deliver(ctx context.Context, events []Event) {
	es.mu.RLock()
	subs := make([]Subscriber, len(es.subscribers))
	copy(subs, es.subscribers)
	es.mu.RUnlock()

	for _, event := range events {
		for _, sub := range subs {
			sub(ctx, event)
		}
		if es.publisher == nil {
			continue
		}
		if err := es.publisher.Publish(ctx, event); err != nil {
			es.log.WithError(err).WithFields(logrus.Fields{
				"event_type":   event.EventType,
				"aggregate_id": event.AggregateID,
			}).Warn("failed to publish event")
		}
	}
}

// GetEvents returns all events for an aggregate
func (es *EventStore) GetEvents(aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	out := make([]Event, len(es.events[aggregateID]))
	copy(out, es.events[aggregateID])
	return out
}

// GetAllEvents returns all events in append order
func (es *EventStore) GetAllEvents() []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	out := make([]Event, len(es.all))
	copy(out, es.all)
	return out
}
