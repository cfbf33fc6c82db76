// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultAttempts is the total number of delivery attempts made by [WithRetry].
const DefaultAttempts = 3

// RetryOption customizes [WithRetry].
type RetryOption func(*retrySender)

// WithBackOff replaces the exponential policy (tests use backoff.ZeroBackOff).
func WithBackOff(factory func() backoff.BackOff) RetryOption {
	return func(sender *retrySender) { sender.newBackOff = factory }
}

// WithAttempts overrides [DefaultAttempts].
func WithAttempts(attempts int) RetryOption {
	return func(sender *retrySender) {
		if attempts > 0 {
			sender.attempts = attempts
		}
	}
}

type retrySender struct {
	next       Sender
	logger     *slog.Logger
	attempts   int
	newBackOff func() backoff.BackOff
}

// WithRetry decorates next with bounded exponential backoff. The context
// deadline of the caller always wins over the remaining attempts.
func WithRetry(next Sender, logger *slog.Logger, options ...RetryOption) Sender {
	sender := &retrySender{
		next:     next,
		logger:   logger,
		attempts: DefaultAttempts,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, option := range options {
		option(sender)
	}
	return sender
}

// Send implements [Sender].
func (sender *retrySender) Send(ctx context.Context, message Message) error {
	attempt := 0
	operation := func() error {
		attempt++
		return sender.next.Send(ctx, message)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(sender.newBackOff(), uint64(sender.attempts-1)),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		sender.logger.WarnContext(ctx, "mail_send_retry",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	}

	return backoff.RetryNotify(operation, policy, notify)
}
