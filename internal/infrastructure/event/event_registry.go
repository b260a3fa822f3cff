package event

import (
	"github.com/swiftbasket/backend/internal/domain/catalog"
	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog domain events
	serializer.Register(catalog.EventTypeStoreCreated, &catalog.StoreCreatedEvent{})
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})

	// Trade domain events
	serializer.Register(trade.EventTypeOrderPlaced, &trade.OrderPlacedEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeUserPasswordResetRequested, &identity.PasswordResetRequestedEvent{})
}
