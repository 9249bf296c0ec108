package notification

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

// Mailer delivers a notification outside the application.
type Mailer interface {
	SendNotification(to, subject, body string) error
}

// Handler mails stored notifications to their recipients
type Handler struct {
	mailer Mailer
	log    *logrus.Entry
}

func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer, log: logger.For("notifier")}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.log.WithError(err).Error("Failed to unmarshal event")
		return err
	}
	return h.Handle(ctx, event)
}

// Handle mails NotificationCreated events and ignores everything else.
func (h *Handler) Handle(ctx context.Context, event store.Event) error {
	if event.EventType != EventNotificationCreated {
		return nil
	}

	var e NotificationCreated
	if err := event.Decode(&e); err != nil {
		h.log.WithError(err).Error("Failed to unmarshal NotificationCreated event")
		return err
	}

	log := h.log.WithFields(logrus.Fields{
		"notification_id": e.NotificationID,
		"order_id":        e.OrderID,
		"user_id":         e.UserID,
	})
	if e.Email == "" {
		log.Debug("No email address, skipping delivery")
		return nil
	}

	if err := h.mailer.SendNotification(e.Email, e.Subject, e.Body); err != nil {
		log.WithError(err).Error("Failed to send notification email")
		return err
	}
	log.Info("Notification email sent")
	return nil
}
