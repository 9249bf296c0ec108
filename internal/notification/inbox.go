package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/nova-commerce/internal/infrastructure/store"
)

const AggregateType = "Notification"

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is a stored order message shown in the user's inbox.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OrderID   string    `json:"order_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Recipient identifies who receives a notification.
type Recipient struct {
	UserID string
	Email  string
}

// Inbox stores notifications per user.
type Inbox struct {
	mu         sync.RWMutex
	items      []*Notification // creation order
	byID       map[string]*Notification
	eventStore store.EventStoreInterface
	now        func() time.Time
}

func NewInbox(es store.EventStoreInterface) *Inbox {
	return &Inbox{
		byID:       make(map[string]*Notification),
		eventStore: es,
		now:        time.Now,
	}
}

// Add stores content for the recipient and announces it on the event feed.
func (in *Inbox) Add(ctx context.Context, to Recipient, orderID string, kind Kind, content Content) (Notification, error) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    to.UserID,
		OrderID:   orderID,
		Subject:   content.Subject,
		Body:      content.Body,
		Type:      kind.Type(),
		Timestamp: in.now(),
	}

	event := NotificationCreated{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Email:          to.Email,
		OrderID:        orderID,
		Type:           n.Type,
		Subject:        n.Subject,
		Body:           n.Body,
		CreatedAt:      n.Timestamp,
	}
	if _, err := in.eventStore.Append(ctx, n.ID, AggregateType, EventNotificationCreated, event); err != nil {
		return Notification{}, fmt.Errorf("failed to record notification: %w", err)
	}

	in.mu.Lock()
	in.items = append(in.items, n)
	in.byID[n.ID] = n
	in.mu.Unlock()
	return *n, nil
}

// ListByUser returns the user's notifications, newest first.
func (in *Inbox) ListByUser(userID string) []Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]Notification, 0)
	for i := len(in.items) - 1; i >= 0; i-- {
		if in.items[i].UserID == userID {
			out = append(out, *in.items[i])
		}
	}
	return out
}

// MarkRead flags a notification as read. Marking twice is a no-op.
func (in *Inbox) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	in.mu.Lock()
	n, ok := in.byID[id]
	if !ok || n.UserID != userID {
		in.mu.Unlock()
		return Notification{}, fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}
	if n.Read {
		out := *n
		in.mu.Unlock()
		return out, nil
	}
	n.Read = true
	out := *n
	in.mu.Unlock()

	event := NotificationRead{NotificationID: id, UserID: userID, ReadAt: in.now()}
	if _, err := in.eventStore.Append(ctx, id, AggregateType, EventNotificationRead, event); err != nil {
		in.mu.Lock()
		n.Read = false
		in.mu.Unlock()
		return Notification{}, fmt.Errorf("failed to record notification read: %w", err)
	}
	return out, nil
}

func (in *Inbox) UnreadCount(userID string) int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	count := 0
	for _, n := range in.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}
