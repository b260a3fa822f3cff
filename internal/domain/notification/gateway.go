package notification

import (
	"context"
	"errors"
	"strings"
)

// Gateway errors. Both channels are best-effort: these errors are logged
// by the dispatch path and never surfaced as an operation failure.
var (
	ErrDeliveryFailed = errors.New("notification: email delivery failed")
	ErrPublishFailed  = errors.New("notification: social post publish failed")
)

// Email is a single outbound transactional message
type Email struct {
	To      string
	Subject string
	Body    string
}

// Validate checks the email has the fields a sender needs
func (e Email) Validate() error {
	if strings.TrimSpace(e.To) == "" {
		return errors.New("notification: email recipient is required")
	}
	if strings.TrimSpace(e.Subject) == "" {
		return errors.New("notification: email subject is required")
	}
	return nil
}

// EmailSender delivers transactional email. Implementations are treated
// as unreliable and possibly slow; callers must never block a primary
// transaction on the outcome.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// SocialPublisher publishes a public post to the social channel.
// Same reliability contract as EmailSender.
type SocialPublisher interface {
	Publish(ctx context.Context, text string) error
}
