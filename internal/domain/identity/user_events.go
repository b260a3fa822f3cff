package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// Event type constants
const (
	EventTypeUserRegistered             = "user.registered"
	EventTypeUserPasswordResetRequested = "user.password_reset_requested"
)

// UserRegisteredEvent is raised when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            user.Role,
	}
}

// EventType returns the event type name
func (e *UserRegisteredEvent) EventType() string {
	return EventTypeUserRegistered
}

// PasswordResetRequestedEvent is raised when a reset token is issued.
// It carries the plaintext token for the reset email; the database only
// ever holds the digest.
type PasswordResetRequestedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewPasswordResetRequestedEvent creates a new PasswordResetRequestedEvent
func NewPasswordResetRequestedEvent(user *User, token string, expiresAt time.Time) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordResetRequested, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Token:           token,
		ExpiresAt:       expiresAt,
	}
}

// EventType returns the event type name
func (e *PasswordResetRequestedEvent) EventType() string {
	return EventTypeUserPasswordResetRequested
}
