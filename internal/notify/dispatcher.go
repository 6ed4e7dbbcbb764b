// Package notify delivers the emails triggered by a stored form
// submission. Delivery is fire-and-forget: the request path schedules it
// and never waits, and no failure here reaches the submitter.
package notify

import (
	"sync"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/mailer"
	"github.com/halcyonweb/backoffice/pkg/logger"
)

type Dispatcher struct {
	mailer     mailer.Mailer
	recipients []string
	siteName   string
	wg         sync.WaitGroup
}

func NewDispatcher(m mailer.Mailer, recipients []string, siteName string) *Dispatcher {
	return &Dispatcher{
		mailer:     m,
		recipients: recipients,
		siteName:   siteName,
	}
}

// Dispatch schedules delivery for one submission and returns immediately.
func (d *Dispatcher) Dispatch(sub *domain.FormSubmission) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Notification dispatch panicked", "panic", r, "submission_id", sub.ID)
			}
		}()
		d.deliver(sub)
	}()
}

// Wait blocks until every scheduled delivery has finished. Used by main
// to drain in-flight sends on shutdown and by tests to join.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// deliver sends the admin notification to each configured recipient and
// the auto-reply when the submission carries a contact email. Every send
// is independent: a failure is logged and the rest still go out.
func (d *Dispatcher) deliver(sub *domain.FormSubmission) {
	subject, text, html := RenderAdminNotification(sub)
	for _, rcpt := range d.recipients {
		if err := d.send(rcpt, "", subject, text, html); err != nil {
			logger.Error("Failed to send admin notification",
				"error", err, "recipient", rcpt, "submission_id", sub.ID, "form", sub.FormName)
		}
	}

	if sub.Email == "" {
		return
	}

	subject, text, html = RenderAutoReply(sub, d.siteName)
	if err := d.send(sub.Email, GreetingName(sub), subject, text, html); err != nil {
		logger.Error("Failed to send auto-reply",
			"error", err, "recipient", sub.Email, "submission_id", sub.ID, "form", sub.FormName)
	}
}

// send wraps a single transport call so a panicking mailer cannot take
// the sibling sends down with it.
func (d *Dispatcher) send(toEmail, toName, subject, text, html string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Mailer panicked", "panic", r, "recipient", toEmail)
		}
	}()
	return d.mailer.Send(toEmail, toName, subject, text, html)
}
