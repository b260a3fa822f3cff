package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PasswordResetHandler sends the reset link email. A send failure is
// returned so the outbox retries; the retry backoff sits well inside
// the token's five minute validity.
type PasswordResetHandler struct {
	emailSender  notification.EmailSender
	resetURLBase string
	logger       *zap.Logger
}

// NewPasswordResetHandler creates a new handler for password reset events.
// resetURLBase is the frontend page the token is appended to, e.g.
// "https://swiftbasket.example.com/reset-password".
func NewPasswordResetHandler(
	emailSender notification.EmailSender,
	resetURLBase string,
	logger *zap.Logger,
) *PasswordResetHandler {
	return &PasswordResetHandler{
		emailSender:  emailSender,
		resetURLBase: resetURLBase,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PasswordResetHandler) EventTypes() []string {
	return []string{identity.EventTypeUserPasswordResetRequested}
}

// Handle sends the reset email with the one-time link
func (h *PasswordResetHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	resetEvent, ok := event.(*identity.PasswordResetRequestedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", identity.EventTypeUserPasswordResetRequested),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			identity.EventTypeUserPasswordResetRequested, event.EventType())
	}

	resetURL := h.buildResetURL(resetEvent.Token)
	email := BuildPasswordResetEmail(resetEvent, resetURL)
	if err := h.emailSender.Send(ctx, email); err != nil {
		h.logger.Warn("failed to send password reset email",
			zap.String("username", resetEvent.Username),
			zap.String("recipient", email.To),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("password reset email sent",
		zap.String("username", resetEvent.Username),
		zap.String("recipient", email.To),
	)
	return nil
}

func (h *PasswordResetHandler) buildResetURL(token string) string {
	return strings.TrimSuffix(h.resetURLBase, "/") + "/" + token
}

// Ensure PasswordResetHandler implements shared.EventHandler
var _ shared.EventHandler = (*PasswordResetHandler)(nil)
