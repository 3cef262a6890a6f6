package email

import (
	"context"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/sampleapp/accounts/configs"
	"github.com/sampleapp/accounts/internal/core/domain/result"
	"github.com/sampleapp/accounts/internal/core/ports"
)

// SendGridSender delivers mail through SendGrid. Per the send contract it
// reports SUCCESS or FAILED; a transport error and a rejected message look
// the same to callers.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logrus.Logger
}

// NewSendGridSender creates a new SendGrid-backed mail sender
func NewSendGridSender(cfg *configs.EmailConfig, logger *logrus.Logger) ports.MailSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg *ports.MailMessage) result.Status {
	recipient := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(s.from, msg.Subject, recipient, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).WithError(err).Error("mail: failed to send email")
		}
		return result.Failed
	}
	if response.StatusCode >= 400 {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject, "status_code": response.StatusCode}).Error("mail: email rejected by transport")
		}
		return result.Failed
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject, "status_code": response.StatusCode}).Info("mail: email sent")
	}
	return result.Success
}
