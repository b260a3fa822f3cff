package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration.
// The role is fixed by the endpoint, never by the caller.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterResult contains the result of a successful registration
type RegisterResult struct {
	User UserInfo
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned by the service
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	Email       string
	Role        string
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// ToUserInfo converts a domain user to its service-level shape
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role.String(),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the access token being revoked
type LogoutInput struct {
	AccessToken string
}

// GetCurrentUserInput contains the input for getting current user info
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User UserInfo
}

// RequestPasswordResetInput contains the email a reset was requested for
type RequestPasswordResetInput struct {
	Email string
}

// ConfirmPasswordResetInput carries the plaintext token from the reset
// email together with the replacement password
type ConfirmPasswordResetInput struct {
	Token       string
	NewPassword string
}
