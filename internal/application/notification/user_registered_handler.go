package notification

import (
	"context"
	"fmt"

	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserRegisteredHandler sends the welcome email to a fresh account.
// A send failure is returned so the outbox retries the delivery; with a
// single channel a retry cannot duplicate anything that already went out.
type UserRegisteredHandler struct {
	emailSender notification.EmailSender
	logger      *zap.Logger
}

// NewUserRegisteredHandler creates a new handler for user registered events
func NewUserRegisteredHandler(emailSender notification.EmailSender, logger *zap.Logger) *UserRegisteredHandler {
	return &UserRegisteredHandler{
		emailSender: emailSender,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *UserRegisteredHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle sends the welcome email
func (h *UserRegisteredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	registeredEvent, ok := event.(*identity.UserRegisteredEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", identity.EventTypeUserRegistered),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			identity.EventTypeUserRegistered, event.EventType())
	}

	email := BuildWelcomeEmail(registeredEvent)
	if err := h.emailSender.Send(ctx, email); err != nil {
		h.logger.Warn("failed to send welcome email",
			zap.String("username", registeredEvent.Username),
			zap.String("recipient", email.To),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("welcome email sent",
		zap.String("username", registeredEvent.Username),
		zap.String("recipient", email.To),
	)
	return nil
}

// Ensure UserRegisteredHandler implements shared.EventHandler
var _ shared.EventHandler = (*UserRegisteredHandler)(nil)
