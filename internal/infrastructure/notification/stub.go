package notification

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/swiftbasket/backend/internal/domain/notification"
)

// StubEmailSender is a placeholder implementation of EmailSender used when
// the email channel is disabled. It logs each message instead of delivering
// it, so local development still shows what would have gone out.
type StubEmailSender struct {
	logger *zap.Logger
}

// NewStubEmailSender creates a new StubEmailSender
func NewStubEmailSender(logger *zap.Logger) *StubEmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubEmailSender{logger: logger}
}

// Ensure StubEmailSender implements EmailSender
var _ notification.EmailSender = (*StubEmailSender)(nil)

// Send validates the message and logs it without delivering
func (s *StubEmailSender) Send(ctx context.Context, email notification.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	s.logger.Info("email channel disabled, message not delivered",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("body_bytes", len(email.Body)))

	return nil
}

// StubSocialPublisher is a placeholder implementation of SocialPublisher
// used when the social channel is disabled.
type StubSocialPublisher struct {
	logger *zap.Logger
}

// NewStubSocialPublisher creates a new StubSocialPublisher
func NewStubSocialPublisher(logger *zap.Logger) *StubSocialPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubSocialPublisher{logger: logger}
}

// Ensure StubSocialPublisher implements SocialPublisher
var _ notification.SocialPublisher = (*StubSocialPublisher)(nil)

// Publish logs the post text without publishing
func (s *StubSocialPublisher) Publish(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("social: post text is required")
	}

	s.logger.Info("social channel disabled, post not published",
		zap.String("text", trimToRunes(text, maxPostRunes)))

	return nil
}
