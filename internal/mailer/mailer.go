package mailer

import (
	"github.com/halcyonweb/backoffice/pkg/config"
)

// Mailer sends one message. Implementations enforce their own send
// timeouts; callers never block on a hung transport longer than that.
type Mailer interface {
	Send(toEmail, toName, subject, text, html string) error
}

// FromConfig picks the transport: dev mode logs instead of sending,
// a MailerSend key wins over plain SMTP.
func FromConfig(cfg config.MailConfig) Mailer {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.FromEmail)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS)
}
