package notification

import (
	"go.uber.org/zap"

	"github.com/swiftbasket/backend/internal/domain/notification"
	infraconfig "github.com/swiftbasket/backend/internal/infrastructure/config"
)

// NewEmailSenderFromConfig returns the SMTP sender when the email channel
// is enabled and the logging stub otherwise. Construction fails only on
// invalid configuration, never on an unreachable relay; connectivity
// problems surface per send.
func NewEmailSenderFromConfig(cfg *infraconfig.EmailConfig, logger *zap.Logger) (notification.EmailSender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil || !cfg.Enabled {
		logger.Info("email channel disabled, using stub sender")
		return NewStubEmailSender(logger), nil
	}

	sender, err := NewSMTPEmailSender(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("email channel enabled",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port))

	return sender, nil
}

// NewSocialPublisherFromConfig returns the OAuth1 publisher when the social
// channel is enabled and the logging stub otherwise.
func NewSocialPublisherFromConfig(cfg *infraconfig.SocialConfig, logger *zap.Logger) (notification.SocialPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil || !cfg.Enabled {
		logger.Info("social channel disabled, using stub publisher")
		return NewStubSocialPublisher(logger), nil
	}

	publisher, err := NewOAuth1SocialPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("social channel enabled", zap.String("base_url", publisher.baseURL))

	return publisher, nil
}
