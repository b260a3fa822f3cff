// Package scheduler runs the periodic maintenance jobs that keep the
// database tidy. The only job today is the reset token purge, which
// removes password reset tokens whose expiry has passed.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ResetTokenPurger deletes reset tokens that expired before the cutoff
// and reports how many rows were removed.
type ResetTokenPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// TokenCleanupScheduler periodically purges expired password reset tokens.
// Tokens are already rejected at use time once expired; the purge only
// keeps the reset_tokens table from growing without bound.
type TokenCleanupScheduler struct {
	tokens    ResetTokenPurger
	logger    *zap.Logger
	config    TokenCleanupSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// TokenCleanupSchedulerConfig holds configuration for the token cleanup scheduler
type TokenCleanupSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval is how often the purge runs
	Interval time.Duration

	// JobTimeout is the maximum time for a single purge run
	JobTimeout time.Duration
}

// DefaultTokenCleanupSchedulerConfig returns default configuration
func DefaultTokenCleanupSchedulerConfig() TokenCleanupSchedulerConfig {
	return TokenCleanupSchedulerConfig{
		Enabled:    true,
		Interval:   10 * time.Minute,
		JobTimeout: 30 * time.Second,
	}
}

// NewTokenCleanupScheduler creates a new token cleanup scheduler
func NewTokenCleanupScheduler(
	tokens ResetTokenPurger,
	logger *zap.Logger,
	config TokenCleanupSchedulerConfig,
) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		tokens: tokens,
		logger: logger,
		config: config,
	}
}

// Start starts the token cleanup scheduler
func (s *TokenCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Token cleanup scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runCleanupLoop(ctx)

	s.logger.Info("Token cleanup scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *TokenCleanupScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the loop to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Token cleanup scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Token cleanup scheduler stop timed out")
		return ctx.Err()
	}
}

// runCleanupLoop purges once at startup and then on every tick. The
// startup run clears any backlog accumulated while the process was down.
func (s *TokenCleanupScheduler) runCleanupLoop(ctx context.Context) {
	defer s.wg.Done()

	s.executeCleanup(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Token cleanup loop stopping")
			return
		case <-ticker.C:
			s.executeCleanup(ctx)
		}
	}
}

// executeCleanup runs a single purge with the configured timeout
func (s *TokenCleanupScheduler) executeCleanup(ctx context.Context) {
	s.logger.Debug("Starting expired reset token purge")

	cleanupCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.tokens.DeleteExpired(cleanupCtx, time.Now())
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Expired reset token purge failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if deleted > 0 {
		s.logger.Info("Expired reset tokens purged",
			zap.Int64("deleted_count", deleted),
			zap.Duration("duration", duration),
		)
		return
	}

	s.logger.Debug("No expired reset tokens to purge",
		zap.Duration("duration", duration),
	)
}

// TriggerImmediateCleanup triggers an immediate purge run
func (s *TokenCleanupScheduler) TriggerImmediateCleanup(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate reset token purge")

	// Run in a goroutine to not block
	go func() {
		defer s.wg.Done()
		s.executeCleanup(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *TokenCleanupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
