package ports

import (
	"context"

	"github.com/sampleapp/accounts/internal/core/domain/result"
)

// MailMessage is one outbound email.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// MailSender delivers a message and reports SUCCESS or FAILED. A transport
// error and a rejection by the transport are indistinguishable to callers.
type MailSender interface {
	Send(ctx context.Context, msg *MailMessage) result.Status
}
