package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// DefaultFromAddress is used when no sender is configured.
const DefaultFromAddress = "VideoSync <noreply@videosync.com>"

var ErrNoRecipient = errors.New("email has no recipient")

// Email is a rendered outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// EmailSender is the part of the Resend client the mailer needs.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer sends email through the Resend API.
type ResendMailer struct {
	sender EmailSender
	from   string
	logger *zap.Logger
}

// NewResendMailer creates a mailer authenticated with apiKey.
func NewResendMailer(apiKey, from string, logger *zap.Logger) *ResendMailer {
	return NewResendMailerWithSender(resend.NewClient(apiKey).Emails, from, logger)
}

// NewResendMailerWithSender creates a mailer using an existing sender.
func NewResendMailerWithSender(sender EmailSender, from string, logger *zap.Logger) *ResendMailer {
	if from == "" {
		from = DefaultFromAddress
	}

	return &ResendMailer{sender: sender, from: from, logger: logger}
}

func (m *ResendMailer) Send(ctx context.Context, email *Email) error {
	if email.To == "" {
		return ErrNoRecipient
	}

	sent, err := m.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email %q: %w", email.Subject, err)
	}

	m.logger.Info("email sent",
		zap.String("id", sent.Id),
		zap.String("subject", email.Subject),
	)

	return nil
}

// LogMailer logs emails instead of delivering them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer for environments without an email provider.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email *Email) error {
	if email.To == "" {
		return ErrNoRecipient
	}

	m.logger.Info("email not delivered, no provider configured",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.Int("bytes", len(email.HTML)),
	)

	return nil
}
