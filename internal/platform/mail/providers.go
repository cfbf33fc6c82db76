// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendTimeout bounds a single provider call.
const sendTimeout = 10 * time.Second

// # Mailgun

// MailgunSender sends through the Mailgun HTTP API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
	from   string
}

// NewMailgunSender creates a sender for the given Mailgun domain.
func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{client: mailgun.NewMailgun(domain, apiKey), from: from}
}

// Send implements [Sender].
func (sender *MailgunSender) Send(ctx context.Context, message Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	outgoing := sender.client.NewMessage(sender.from, message.Subject, message.Text, message.To)
	outgoing.SetHtml(message.HTML)

	if _, _, err := sender.client.Send(ctx, outgoing); err != nil {
		return fmt.Errorf("mail: mailgun send failed: %w", err)
	}
	return nil
}

// # SendGrid

// SendGridSender sends through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   string
}

// NewSendGridSender creates a sender authenticated with apiKey.
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), from: from}
}

// Send implements [Sender].
func (sender *SendGridSender) Send(ctx context.Context, message Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	outgoing := sgmail.NewSingleEmail(
		sgmail.NewEmail("", sender.from),
		message.Subject,
		sgmail.NewEmail("", message.To),
		message.Text,
		message.HTML,
	)

	response, err := sender.client.SendWithContext(ctx, outgoing)
	if err != nil {
		return fmt.Errorf("mail: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mail: sendgrid rejected message with status %d", response.StatusCode)
	}
	return nil
}

// # Log

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a development sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("text", message.Text),
	)
	return nil
}
