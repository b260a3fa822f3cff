// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormOutboxQueueProvider implements OutboxQueueProvider using GORM.
// It queries the outbox_events table directly for aggregated counts.
type GormOutboxQueueProvider struct {
	db *gorm.DB
}

// NewGormOutboxQueueProvider creates a new GormOutboxQueueProvider.
func NewGormOutboxQueueProvider(db *gorm.DB) *GormOutboxQueueProvider {
	return &GormOutboxQueueProvider{db: db}
}

// CountByStatus returns the number of outbox events per status.
func (p *GormOutboxQueueProvider) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("outbox_events").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}
