// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the marketplace.
// It tracks registrations, placed orders, notification delivery, and the
// health of the transactional outbox.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	userRegisteredTotal       *Counter
	orderPlacedTotal          *Counter
	orderAmountTotal          *Counter
	notificationDeliveryTotal *Counter

	// Gauge metrics (point-in-time values)
	outboxEventsByStatus *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	outboxProvider OutboxQueueProvider
}

// OutboxQueueProvider provides outbox queue depth for periodic metrics
// collection. The interface keeps the telemetry layer from depending on
// the outbox domain directly.
type OutboxQueueProvider interface {
	// CountByStatus returns the number of outbox events per status
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 1 minute
	OutboxProvider  OutboxQueueProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		outboxProvider: cfg.OutboxProvider,
	}

	var err error

	// Account metrics
	bm.userRegisteredTotal, err = NewCounter(
		cfg.Meter,
		"swiftbasket_user_registered_total",
		"Total number of registered accounts",
		"{users}",
	)
	if err != nil {
		return nil, err
	}

	// Order metrics
	bm.orderPlacedTotal, err = NewCounter(
		cfg.Meter,
		"swiftbasket_order_placed_total",
		"Total number of orders placed at checkout",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"swiftbasket_order_amount_total",
		"Total order amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Notification metrics
	bm.notificationDeliveryTotal, err = NewCounter(
		cfg.Meter,
		"swiftbasket_notification_delivery_total",
		"Total number of outbox notification delivery attempts by outcome",
		"{deliveries}",
	)
	if err != nil {
		return nil, err
	}

	// Outbox gauge metrics
	bm.outboxEventsByStatus, err = NewGauge(
		cfg.Meter,
		"swiftbasket_outbox_events",
		"Current number of outbox events by status",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Account Metrics
// =============================================================================

// RecordUserRegistered records an account registration.
func (bm *BusinessMetrics) RecordUserRegistered(ctx context.Context, role string) {
	bm.userRegisteredTotal.Inc(ctx,
		AttrUserRole.String(role),
	)
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderPlaced records a successful checkout.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context) {
	bm.orderPlacedTotal.Inc(ctx)
}

// RecordOrderAmount records the order total.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, amountCents int64) {
	bm.orderAmountTotal.Add(ctx, amountCents)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, amount decimal.Decimal) {
	bm.RecordOrderPlaced(ctx)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, amountCents)
}

// =============================================================================
// Notification Metrics
// =============================================================================

// DeliveryState represents the outcome of a notification delivery attempt.
type DeliveryState string

const (
	DeliveryStateSent   DeliveryState = "sent"
	DeliveryStateFailed DeliveryState = "failed"
)

// RecordNotificationDelivery records an outbox delivery attempt.
// This should be called when the outbox processor dispatches an event.
func (bm *BusinessMetrics) RecordNotificationDelivery(ctx context.Context, eventType string, state DeliveryState) {
	bm.notificationDeliveryTotal.Inc(ctx,
		AttrEventType.String(eventType),
		AttrDeliveryState.String(string(state)),
	)
}

// =============================================================================
// Outbox Metrics
// =============================================================================

// RecordOutboxDepth records the current number of outbox events for a status.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutboxDepth(ctx context.Context, status string, count int64) {
	bm.outboxEventsByStatus.Record(ctx, count,
		AttrOutboxStatus.String(status),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects outbox queue depth every interval (default: 1 minute).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectOutboxMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectOutboxMetrics(ctx)
		}
	}
}

// collectOutboxMetrics collects the outbox queue depth gauge.
func (bm *BusinessMetrics) collectOutboxMetrics(ctx context.Context) {
	if bm.outboxProvider == nil {
		bm.logger.Debug("No outbox provider configured, skipping outbox metrics collection")
		return
	}

	counts, err := bm.outboxProvider.CountByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get outbox counts for metrics collection", zap.Error(err))
		return
	}

	for status, count := range counts {
		bm.RecordOutboxDepth(ctx, status, count)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
