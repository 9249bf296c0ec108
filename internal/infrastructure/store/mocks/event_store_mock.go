package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/nova-commerce/internal/infrastructure/store"
)

// MockEventStore is a mock implementation of EventStoreInterface for testing
type MockEventStore struct {
	mu     sync.RWMutex
	events map[string][]store.Event
	all    []store.Event

	// For tracking calls in tests
	AppendCalls    []AppendCall
	AppendErr      error
	AppendCallback func(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error)
}

// AppendCall records parameters passed to Append
type AppendCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

// NewMockEventStore creates a new MockEventStore
func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:      make(map[string][]store.Event),
		AppendCalls: make([]AppendCall, 0),
	}
}

// Append records the call and stores the event in memory
func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	m.mu.Lock()
	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})
	callback, appendErr := m.AppendCallback, m.AppendErr
	m.mu.Unlock()

	if callback != nil {
		return callback(ctx, aggregateID, aggregateType, eventType, data)
	}
	if appendErr != nil {
		return nil, appendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	event, err := m.newEvent(aggregateID, aggregateType, eventType, data)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (m *MockEventStore) newEvent(aggregateID, aggregateType, eventType string, data any) (store.Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return store.Event{}, err
	}
	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       len(m.events[aggregateID]) + 1,
	}
	m.events[aggregateID] = append(m.events[aggregateID], event)
	m.all = append(m.all, event)
	return event, nil
}

// GetEvents returns events for an aggregate
func (m *MockEventStore) GetEvents(aggregateID string) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[aggregateID]
}

// GetAllEvents returns all events in append order
func (m *MockEventStore) GetAllEvents() []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.Event, len(m.all))
	copy(out, m.all)
	return out
}

// EventTypes lists the event types of every recorded Append call in order
func (m *MockEventStore) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.AppendCalls))
	for _, c := range m.AppendCalls {
		types = append(types, c.EventType)
	}
	return types
}

// LastCall returns the most recent Append call
func (m *MockEventStore) LastCall() (AppendCall, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.AppendCalls) == 0 {
		return AppendCall{}, false
	}
	return m.AppendCalls[len(m.AppendCalls)-1], true
}

// Reset clears all events and recorded calls
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.all = nil
	m.AppendCalls = make([]AppendCall, 0)
	m.AppendErr = nil
	m.AppendCallback = nil
}

// AddEvent adds a single event for testing without recording a call
func (m *MockEventStore) AddEvent(aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.newEvent(aggregateID, aggregateType, eventType, data)
	return err
}
