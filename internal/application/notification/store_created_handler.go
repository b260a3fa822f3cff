package notification

import (
	"context"
	"fmt"

	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StoreCreatedHandler announces a new store: a confirmation email to the
// vendor and a public launch post. Channel failures are logged, not
// returned; see OrderPlacedHandler for the redelivery rationale.
type StoreCreatedHandler struct {
	emailSender notification.EmailSender
	publisher   notification.SocialPublisher
	logger      *zap.Logger
}

// NewStoreCreatedHandler creates a new handler for store created events
func NewStoreCreatedHandler(
	emailSender notification.EmailSender,
	publisher notification.SocialPublisher,
	logger *zap.Logger,
) *StoreCreatedHandler {
	return &StoreCreatedHandler{
		emailSender: emailSender,
		publisher:   publisher,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StoreCreatedHandler) EventTypes() []string {
	return []string{catalog.EventTypeStoreCreated}
}

// Handle emails the vendor and publishes the launch announcement
func (h *StoreCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*catalog.StoreCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeStoreCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeStoreCreated, event.EventType())
	}

	h.logger.Info("processing store created event",
		zap.String("store_id", createdEvent.StoreID.String()),
		zap.String("store_name", createdEvent.Name),
	)

	email := BuildStoreLaunchEmail(createdEvent)
	if err := h.emailSender.Send(ctx, email); err != nil {
		h.logger.Warn("failed to send store launch email",
			zap.String("store_name", createdEvent.Name),
			zap.String("recipient", email.To),
			zap.Error(err),
		)
	}

	if err := h.publisher.Publish(ctx, BuildStoreLaunchPost(createdEvent)); err != nil {
		h.logger.Warn("failed to publish store launch post",
			zap.String("store_name", createdEvent.Name),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure StoreCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*StoreCreatedHandler)(nil)
