package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swiftbasket/backend/internal/domain/identity"
	"github.com/swiftbasket/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormResetTokenRepository implements ResetTokenRepository using GORM
type GormResetTokenRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormResetTokenRepository creates a new GormResetTokenRepository
func NewGormResetTokenRepository(db *gorm.DB) *GormResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormResetTokenRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Create stores a new reset token
func (r *GormResetTokenRepository) Create(ctx context.Context, token *identity.ResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// CreateWithEvents stores a new reset token and saves domain events atomically.
// The token row and the password_reset_requested outbox entry commit together,
// so the reset email is only ever sent for a token that exists.
func (r *GormResetTokenRepository) CreateWithEvents(ctx context.Context, token *identity.ResetToken, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(token).Error; err != nil {
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// FindByTokenHash finds a token record by its digest
func (r *GormResetTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*identity.ResetToken, error) {
	var token identity.ResetToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Update updates a token record (marking it used)
func (r *GormResetTokenRepository) Update(ctx context.Context, token *identity.ResetToken) error {
	result := r.db.WithContext(ctx).Save(token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteExpired removes tokens that expired before the cutoff
func (r *GormResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&identity.ResetToken{})
	return result.RowsAffected, result.Error
}

// Ensure GormResetTokenRepository implements ResetTokenRepository
var _ identity.ResetTokenRepository = (*GormResetTokenRepository)(nil)
