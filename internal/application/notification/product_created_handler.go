package notification

import (
	"context"
	"fmt"

	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCreatedHandler announces a new product: a confirmation email to
// the vendor and a public availability post. Channel failures are
// logged, not returned; see OrderPlacedHandler for the redelivery
// rationale.
type ProductCreatedHandler struct {
	emailSender notification.EmailSender
	publisher   notification.SocialPublisher
	logger      *zap.Logger
}

// NewProductCreatedHandler creates a new handler for product created events
func NewProductCreatedHandler(
	emailSender notification.EmailSender,
	publisher notification.SocialPublisher,
	logger *zap.Logger,
) *ProductCreatedHandler {
	return &ProductCreatedHandler{
		emailSender: emailSender,
		publisher:   publisher,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductCreatedHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductCreated}
}

// Handle emails the vendor and publishes the availability announcement
func (h *ProductCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	createdEvent, ok := event.(*catalog.ProductCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", catalog.EventTypeProductCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductCreated, event.EventType())
	}

	h.logger.Info("processing product created event",
		zap.String("product_id", createdEvent.ProductID.String()),
		zap.String("product_name", createdEvent.Name),
		zap.String("store_name", createdEvent.StoreName),
	)

	email := BuildProductLaunchEmail(createdEvent)
	if err := h.emailSender.Send(ctx, email); err != nil {
		h.logger.Warn("failed to send product launch email",
			zap.String("product_name", createdEvent.Name),
			zap.String("recipient", email.To),
			zap.Error(err),
		)
	}

	if err := h.publisher.Publish(ctx, BuildProductLaunchPost(createdEvent)); err != nil {
		h.logger.Warn("failed to publish product launch post",
			zap.String("product_name", createdEvent.Name),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure ProductCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ProductCreatedHandler)(nil)
