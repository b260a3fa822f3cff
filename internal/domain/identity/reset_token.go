package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbasket/backend/internal/domain/shared"
)

// ResetTokenTTL is how long a password reset token stays valid
const ResetTokenTTL = 5 * time.Minute

const resetTokenBytes = 16

// ResetToken is a single-use password reset credential.
// Only the SHA-256 digest of the token is stored; the plaintext exists
// once, inside the reset email sent to the user.
type ResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ResetToken) TableName() string {
	return "reset_tokens"
}

// GenerateResetToken creates a new reset token for a user and returns the
// plaintext token alongside the record holding its digest
func GenerateResetToken(userID uuid.UUID) (string, *ResetToken, error) {
	if userID == uuid.Nil {
		return "", nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate reset token")
	}
	plaintext := base64.RawURLEncoding.EncodeToString(raw)

	now := time.Now()
	token := &ResetToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: HashResetToken(plaintext),
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return plaintext, token, nil
}

// HashResetToken returns the hex-encoded SHA-256 digest of a token
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsExpired returns true if the token has passed its expiry
func (t *ResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsUsable returns true if the token is neither used nor expired
func (t *ResetToken) IsUsable() bool {
	return !t.Used && !t.IsExpired()
}

// MarkUsed consumes the token
func (t *ResetToken) MarkUsed() error {
	if t.Used {
		return shared.NewDomainError("TOKEN_ALREADY_USED", "Reset token has already been used")
	}
	if t.IsExpired() {
		return shared.NewDomainError("TOKEN_EXPIRED", "Reset token has expired")
	}

	t.Used = true
	t.UpdatedAt = time.Now()

	return nil
}
