// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email (account activation) through a
pluggable provider.

Providers:

  - mailgun: Mailgun HTTP API.
  - sendgrid: SendGrid v3 API.
  - log: Writes the message to the structured logger (development).

Delivery is wrapped by [WithRetry] so that a transient provider failure does
not fail a registration on the first attempt.
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/accounts/internal/platform/config"
)

// Provider names accepted by MAIL_PROVIDER.
const (
	ProviderLog      = "log"
	ProviderMailgun  = "mailgun"
	ProviderSendGrid = "sendgrid"
)

// ErrInvalidConfig is returned when the selected provider is missing credentials.
var ErrInvalidConfig = errors.New("mail: invalid provider configuration")

// Message is one rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// New builds the sender selected by cfg.Provider.
func New(cfg config.Mail, logger *slog.Logger) (Sender, error) {
	switch cfg.Provider {
	case ProviderMailgun:
		if cfg.MailgunDomain == "" || cfg.MailgunKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: mailgun needs domain, key and from", ErrInvalidConfig)
		}
		return NewMailgunSender(cfg.MailgunDomain, cfg.MailgunKey, cfg.From), nil

	case ProviderSendGrid:
		if cfg.SendGridKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: sendgrid needs key and from", ErrInvalidConfig)
		}
		return NewSendGridSender(cfg.SendGridKey, cfg.From), nil

	case ProviderLog, "":
		return NewLogSender(logger), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
