package user

import "time"

const (
	EventUserCreated  = "UserCreated"
	EventUserLoggedIn = "UserLoggedIn"
)

// UserCreated is emitted when a customer registers
type UserCreated struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserLoggedIn is emitted on every successful authentication
type UserLoggedIn struct {
	UserID    string    `json:"user_id"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	LoggedAt  time.Time `json:"logged_at"`
}
