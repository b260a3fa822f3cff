// Package notification provides delivery adapters for the outbound
// notification channels: transactional email over SMTP and posts to the
// social feed. Adapters are only ever invoked from event handlers, never
// from a request transaction.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/swiftbasket/backend/internal/domain/notification"
	infraconfig "github.com/swiftbasket/backend/internal/infrastructure/config"
)

// Ensure SMTPEmailSender implements EmailSender
var _ notification.EmailSender = (*SMTPEmailSender)(nil)

// SMTPEmailSender delivers transactional email over SMTP using go-mail.
// TLS is opportunistic so the same sender works against a production
// relay on 587 and a local capture server (MailHog, Mailpit) without TLS.
type SMTPEmailSender struct {
	config *infraconfig.EmailConfig
	client *mail.Client
	logger *zap.Logger
}

// NewSMTPEmailSender creates a new SMTP email sender from configuration.
// Credentials are optional; when a username is configured the client
// authenticates with SMTP PLAIN.
func NewSMTPEmailSender(cfg *infraconfig.EmailConfig, logger *zap.Logger) (*SMTPEmailSender, error) {
	if cfg == nil {
		return nil, errors.New("email configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: failed to create client: %w", err)
	}

	return &SMTPEmailSender{
		config: cfg,
		client: client,
		logger: logger,
	}, nil
}

// Send delivers a single email. Transport failures are wrapped in
// ErrDeliveryFailed so dispatch code can treat them uniformly.
func (s *SMTPEmailSender) Send(ctx context.Context, email notification.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.config.FromName, s.config.From); err != nil {
		return fmt.Errorf("smtp: invalid sender address: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return fmt.Errorf("smtp: invalid recipient address: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return fmt.Errorf("%w: %v", notification.ErrDeliveryFailed, err)
	}

	s.logger.Debug("email delivered",
		zap.String("to", email.To),
		zap.String("subject", email.Subject))

	return nil
}
