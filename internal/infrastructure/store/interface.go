package store

import "context"

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetAllEvents() []Event
}

// Transactional is an event store whose deliveries can be held back while
// a multi-step operation runs.
type Transactional interface {
	EventStoreInterface
	Begin()
	Commit(ctx context.Context)
	Rollback()
}
