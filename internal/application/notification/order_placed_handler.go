package notification

import (
	"context"
	"fmt"

	"github.com/swiftbasket/backend/internal/domain/notification"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"github.com/swiftbasket/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderPlacedHandler fans an order.placed event out to the invoice email
// and the public sale post. Both channels are best-effort: each is
// attempted regardless of the other, and a channel failure is logged
// rather than returned, because a redelivery would duplicate whichever
// channel already went out.
type OrderPlacedHandler struct {
	emailSender notification.EmailSender
	publisher   notification.SocialPublisher
	logger      *zap.Logger
}

// NewOrderPlacedHandler creates a new handler for order placed events
func NewOrderPlacedHandler(
	emailSender notification.EmailSender,
	publisher notification.SocialPublisher,
	logger *zap.Logger,
) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		emailSender: emailSender,
		publisher:   publisher,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

// Handle sends the invoice email and publishes the sale announcement
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placedEvent, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", trade.EventTypeOrderPlaced),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderPlaced, event.EventType())
	}

	h.logger.Info("processing order placed event",
		zap.String("order_id", placedEvent.OrderID.String()),
		zap.String("order_number", placedEvent.OrderNumber),
		zap.Int("items_count", len(placedEvent.Items)),
	)

	invoice := BuildInvoiceEmail(placedEvent)
	if err := h.emailSender.Send(ctx, invoice); err != nil {
		h.logger.Warn("failed to send invoice email",
			zap.String("order_number", placedEvent.OrderNumber),
			zap.String("recipient", invoice.To),
			zap.Error(err),
		)
	} else {
		h.logger.Info("invoice email sent",
			zap.String("order_number", placedEvent.OrderNumber),
			zap.String("recipient", invoice.To),
		)
	}

	if err := h.publisher.Publish(ctx, BuildOrderSalePost(placedEvent)); err != nil {
		h.logger.Warn("failed to publish sale post",
			zap.String("order_number", placedEvent.OrderNumber),
			zap.Error(err),
		)
	}

	return nil
}

// Ensure OrderPlacedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderPlacedHandler)(nil)
