package identity

import (
	"context"
	"errors"
	"time"

	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PasswordResetService issues and consumes single-use reset tokens.
// The request path never reveals whether an email is registered; the
// reset email itself is dispatched through the outbox.
type PasswordResetService struct {
	userRepo       identity.UserRepository
	resetTokenRepo identity.ResetTokenRepository
	logger         *zap.Logger
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	userRepo identity.UserRepository,
	resetTokenRepo identity.ResetTokenRepository,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		logger:         logger,
	}
}

// RequestReset issues a reset token for the account behind the email.
// The response is identical whether or not the email exists.
func (s *PasswordResetService) RequestReset(ctx context.Context, input RequestPasswordResetInput) error {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		s.logger.Error("Failed to look up email for password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	plaintext, token, err := identity.GenerateResetToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	// The plaintext token exists only inside the event payload; the table
	// row carries the digest
	event := identity.NewPasswordResetRequestedEvent(user, plaintext, token.ExpiresAt)
	if err := s.resetTokenRepo.CreateWithEvents(ctx, token, []shared.DomainEvent{event}); err != nil {
		s.logger.Error("Failed to store reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	s.logger.Info("Password reset token issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", token.ExpiresAt))

	return nil
}

// ConfirmReset validates the token and replaces the user's password.
// Tokens are single-use; expiry and reuse are rejected.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, input ConfirmPasswordResetInput) error {
	token, err := s.resetTokenRepo.FindByTokenHash(ctx, identity.HashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TOKEN_INVALID", "Invalid or expired reset token")
		}
		s.logger.Error("Failed to look up reset token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process reset request")
	}

	if token.Used {
		return shared.NewDomainError("TOKEN_ALREADY_USED", "Reset token has already been used")
	}
	if token.IsExpired() {
		return shared.NewDomainError("TOKEN_EXPIRED", "Reset token has expired")
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		s.logger.Error("Failed to load user for reset token",
			zap.String("user_id", token.UserID.String()),
			zap.Error(err))
		return shared.NewDomainError("TOKEN_INVALID", "Invalid or expired reset token")
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := token.MarkUsed(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}
	if err := s.resetTokenRepo.Update(ctx, token); err != nil {
		// The password did change; a stale token row only narrows the
		// reuse window to its five minute expiry
		s.logger.Error("Failed to mark reset token used", zap.Error(err))
	}

	s.logger.Info("Password reset completed", zap.String("user_id", user.ID.String()))

	return nil
}

// CleanupExpired removes reset tokens whose expiry passed before now.
// Called by the token cleanup scheduler.
func (s *PasswordResetService) CleanupExpired(ctx context.Context) (int64, error) {
	removed, err := s.resetTokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to remove expired reset tokens", zap.Error(err))
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("Removed expired reset tokens", zap.Int64("count", removed))
	}

	return removed, nil
}
