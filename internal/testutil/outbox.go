// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"regexp"
	"sync"

	"github.com/taibuivan/accounts/internal/platform/mail"
)

var codePattern = regexp.MustCompile(`\b\d{4}\b`)

// Outbox is a mail.Sender that records every message.
type Outbox struct {
	mu       sync.Mutex
	messages []mail.Message
}

// Send implements mail.Sender.
func (outbox *Outbox) Send(_ context.Context, message mail.Message) error {
	outbox.mu.Lock()
	defer outbox.mu.Unlock()
	outbox.messages = append(outbox.messages, message)
	return nil
}

// Messages returns a copy of the recorded messages.
func (outbox *Outbox) Messages() []mail.Message {
	outbox.mu.Lock()
	defer outbox.mu.Unlock()
	return append([]mail.Message(nil), outbox.messages...)
}

// LastCode extracts the 4-digit activation code from the latest message.
func (outbox *Outbox) LastCode() string {
	outbox.mu.Lock()
	defer outbox.mu.Unlock()
	if len(outbox.messages) == 0 {
		return ""
	}
	return codePattern.FindString(outbox.messages[len(outbox.messages)-1].Text)
}
