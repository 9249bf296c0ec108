package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/infrastructure/store/mocks"
)

// ============================================
// Inbox Tests
// ============================================

func TestInbox_Add_Success(t *testing.T) {
	es := mocks.NewMockEventStore()
	in := NewInbox(es)

	n, err := in.Add(context.Background(), Recipient{UserID: "u1", Email: "john@example.com"}, "#NV1234", KindConfirmation, Content{Subject: "S", Body: "B"})

	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, TypeOrderConfirmation, n.Type)
	assert.False(t, n.Read)
	assert.Equal(t, []string{EventNotificationCreated}, es.EventTypes())

	call, ok := es.LastCall()
	require.True(t, ok)
	created, ok := call.Data.(NotificationCreated)
	require.True(t, ok)
	assert.Equal(t, "john@example.com", created.Email)
	assert.Equal(t, "#NV1234", created.OrderID)
}

func TestInbox_Add_EventStoreError(t *testing.T) {
	es := mocks.NewMockEventStore()
	es.AppendErr = errors.New("down")
	in := NewInbox(es)

	_, err := in.Add(context.Background(), Recipient{UserID: "u1"}, "#NV1", KindConfirmation, Content{})

	assert.Error(t, err)
	assert.Empty(t, in.ListByUser("u1"))
}

func TestInbox_ListByUser_NewestFirst(t *testing.T) {
	in := NewInbox(mocks.NewMockEventStore())
	ctx := context.Background()
	first, _ := in.Add(ctx, Recipient{UserID: "u1"}, "#NV1", KindConfirmation, Content{Subject: "1"})
	_, _ = in.Add(ctx, Recipient{UserID: "u2"}, "#NV2", KindConfirmation, Content{Subject: "2"})
	third, _ := in.Add(ctx, Recipient{UserID: "u1"}, "#NV1", KindShipping, Content{Subject: "3"})

	list := in.ListByUser("u1")

	require.Len(t, list, 2)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Empty(t, in.ListByUser("nobody"))
}

func TestInbox_MarkRead(t *testing.T) {
	es := mocks.NewMockEventStore()
	in := NewInbox(es)
	ctx := context.Background()
	n, _ := in.Add(ctx, Recipient{UserID: "u1"}, "#NV1", KindConfirmation, Content{})
	_, _ = in.Add(ctx, Recipient{UserID: "u1"}, "#NV2", KindConfirmation, Content{})
	require.Equal(t, 2, in.UnreadCount("u1"))

	read, err := in.MarkRead(ctx, "u1", n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.Equal(t, 1, in.UnreadCount("u1"))

	_, err = in.MarkRead(ctx, "u1", n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, in.UnreadCount("u1"))
	assert.Equal(t, []string{EventNotificationCreated, EventNotificationCreated, EventNotificationRead}, es.EventTypes())
}

func TestInbox_MarkRead_NotFound(t *testing.T) {
	in := NewInbox(mocks.NewMockEventStore())
	n, _ := in.Add(context.Background(), Recipient{UserID: "u1"}, "#NV1", KindConfirmation, Content{})

	_, err := in.MarkRead(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = in.MarkRead(context.Background(), "u2", n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

// ============================================
// Handler Tests
// ============================================

type sentMail struct{ to, subject, body string }

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) SendNotification(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func createdEvent(t *testing.T, e NotificationCreated) []byte {
	t.Helper()
	data, err := json.Marshal(e)
	require.NoError(t, err)
	value, err := json.Marshal(store.Event{
		ID:          "evt-1",
		AggregateID: e.NotificationID,
		EventType:   EventNotificationCreated,
		Data:        data,
		Timestamp:   time.Now(),
	})
	require.NoError(t, err)
	return value
}

func TestHandler_HandleEvent_SendsMail(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer)
	value := createdEvent(t, NotificationCreated{NotificationID: "n1", UserID: "u1", Email: "john@example.com", Subject: "S", Body: "B"})

	err := h.HandleEvent(context.Background(), []byte("n1"), value)

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{"john@example.com", "S", "B"}, mailer.sent[0])
}

func TestHandler_HandleEvent_NoEmailSkipped(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer)

	err := h.HandleEvent(context.Background(), nil, createdEvent(t, NotificationCreated{NotificationID: "n1", UserID: "u1"}))

	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandler_HandleEvent_OtherEventsIgnored(t *testing.T) {
	mailer := &mockMailer{}
	value, _ := json.Marshal(store.Event{EventType: "OrderPlaced", Data: json.RawMessage(`{}`)})

	err := NewHandler(mailer).HandleEvent(context.Background(), nil, value)

	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandler_HandleEvent_InvalidJSON(t *testing.T) {
	err := NewHandler(&mockMailer{}).HandleEvent(context.Background(), nil, []byte("{"))

	assert.Error(t, err)
}

func TestHandler_HandleEvent_MailerError(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}

	err := NewHandler(mailer).HandleEvent(context.Background(), nil, createdEvent(t, NotificationCreated{NotificationID: "n1", Email: "x@y.z"}))

	assert.Error(t, err)
}
