// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/accounts/internal/platform/config"
	"github.com/taibuivan/accounts/internal/platform/mail"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, message mail.Message) error {
	return m.Called(ctx, message).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func zeroBackOff() backoff.BackOff { return &backoff.ZeroBackOff{} }

/*
TestWithRetry_RecoversFromTransientFailure verifies that a later attempt may succeed.
*/
func TestWithRetry_RecoversFromTransientFailure(t *testing.T) {
	next := &mockSender{}
	next.On("Send", mock.Anything, mock.Anything).Return(errors.New("503")).Once()
	next.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	sender := mail.WithRetry(next, discardLogger(), mail.WithBackOff(zeroBackOff))

	require.NoError(t, sender.Send(context.Background(), mail.Message{To: "a@x.io"}))
	next.AssertNumberOfCalls(t, "Send", 2)
}

/*
TestWithRetry_GivesUpAfterAttempts verifies the attempt bound.
*/
func TestWithRetry_GivesUpAfterAttempts(t *testing.T) {
	next := &mockSender{}
	next.On("Send", mock.Anything, mock.Anything).Return(errors.New("down"))

	sender := mail.WithRetry(next, discardLogger(), mail.WithBackOff(zeroBackOff))

	assert.Error(t, sender.Send(context.Background(), mail.Message{To: "a@x.io"}))
	next.AssertNumberOfCalls(t, "Send", mail.DefaultAttempts)
}

/*
TestWithRetry_StopsOnCancelledContext verifies that the caller deadline wins.
*/
func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	next := &mockSender{}
	next.On("Send", mock.Anything, mock.Anything).Return(errors.New("down"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := mail.WithRetry(next, discardLogger(), mail.WithBackOff(zeroBackOff), mail.WithAttempts(10))

	assert.Error(t, sender.Send(ctx, mail.Message{To: "a@x.io"}))
	assert.Less(t, len(next.Calls), 10)
}

/*
TestRenderActivation verifies that the code and name reach both bodies.
*/
func TestRenderActivation(t *testing.T) {
	message, err := mail.RenderActivation("ann@x.io", mail.ActivationData{
		Name:      "Ann <script>",
		Code:      "4821",
		ExpiresIn: "5 minutes",
	})
	require.NoError(t, err)

	assert.Equal(t, "ann@x.io", message.To)
	assert.Equal(t, mail.ActivationSubject, message.Subject)
	assert.Contains(t, message.HTML, "4821")
	assert.Contains(t, message.Text, "4821")
	assert.Contains(t, message.HTML, "Ann &lt;script&gt;")
	assert.Contains(t, message.Text, "5 minutes")
}

/*
TestNew verifies provider selection and credential checks.
*/
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Mail
		wantErr bool
	}{
		{"log_default", config.Mail{}, false},
		{"mailgun_ok", config.Mail{Provider: mail.ProviderMailgun, From: "f@x.io", MailgunDomain: "mg.x.io", MailgunKey: "k"}, false},
		{"mailgun_missing_key", config.Mail{Provider: mail.ProviderMailgun, From: "f@x.io", MailgunDomain: "mg.x.io"}, true},
		{"sendgrid_ok", config.Mail{Provider: mail.ProviderSendGrid, From: "f@x.io", SendGridKey: "k"}, false},
		{"sendgrid_missing_from", config.Mail{Provider: mail.ProviderSendGrid, SendGridKey: "k"}, true},
		{"unknown", config.Mail{Provider: "pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := mail.New(tt.cfg, discardLogger())
			if tt.wantErr {
				assert.ErrorIs(t, err, mail.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, sender)
		})
	}
}
