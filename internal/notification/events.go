package notification

import "time"

const (
	EventNotificationCreated = "NotificationCreated"
	EventNotificationRead    = "NotificationRead"
)

// NotificationCreated is emitted when a message lands in a user's inbox
type NotificationCreated struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Email          string    `json:"email,omitempty"`
	OrderID        string    `json:"order_id"`
	Type           Type      `json:"type"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationRead is emitted when a user opens a message
type NotificationRead struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}
