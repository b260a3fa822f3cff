package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// CreateWithEvents creates a new user and saves the supplied domain
	// events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, user *User, events []shared.DomainEvent) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// ResetTokenRepository defines the interface for reset token persistence
type ResetTokenRepository interface {
	// Create stores a new reset token
	Create(ctx context.Context, token *ResetToken) error

	// CreateWithEvents stores a new reset token and saves the supplied
	// domain events to the outbox in the same transaction
	CreateWithEvents(ctx context.Context, token *ResetToken, events []shared.DomainEvent) error

	// FindByTokenHash finds a token record by its digest
	FindByTokenHash(ctx context.Context, tokenHash string) (*ResetToken, error)

	// Update updates a token record (marking it used)
	Update(ctx context.Context, token *ResetToken) error

	// DeleteExpired removes tokens that expired before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
