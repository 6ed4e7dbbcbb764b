package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/halcyonweb/backoffice/internal/domain"
)

type fakeMailer struct {
	mu       sync.Mutex
	sends    []string
	failFor  map[string]error
	panicFor map[string]bool
}

func (m *fakeMailer) Send(toEmail, toName, subject, text, html string) error {
	m.mu.Lock()
	m.sends = append(m.sends, toEmail)
	shouldPanic := m.panicFor[toEmail]
	err := m.failFor[toEmail]
	m.mu.Unlock()

	if shouldPanic {
		panic("mailer blew up")
	}
	return err
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sends...)
}

func contactSubmission(email string) *domain.FormSubmission {
	return &domain.FormSubmission{
		ID:       9,
		FormName: "contact",
		Data:     map[string]domain.Value{"name": domain.Str("Jane")},
		Email:    email,
		Status:   domain.StatusNew,
	}
}

func TestDispatchSendsToAllRecipients(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m, []string{"a@studio.test", "b@studio.test"}, "Studio")

	d.Dispatch(contactSubmission(""))
	d.Wait()

	got := m.recipients()
	if len(got) != 2 || got[0] != "a@studio.test" || got[1] != "b@studio.test" {
		t.Errorf("expected both admin recipients, got %v", got)
	}
}

func TestDispatchRecipientFailureDoesNotStopOthers(t *testing.T) {
	m := &fakeMailer{failFor: map[string]error{"a@studio.test": errors.New("bounce")}}
	d := NewDispatcher(m, []string{"a@studio.test", "b@studio.test"}, "Studio")

	d.Dispatch(contactSubmission("jane@example.com"))
	d.Wait()

	got := m.recipients()
	if len(got) != 3 {
		t.Fatalf("expected all three sends attempted, got %v", got)
	}
	if got[2] != "jane@example.com" {
		t.Errorf("auto-reply should still be attempted, got %v", got)
	}
}

func TestDispatchNoAutoReplyWithoutEmail(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(m, []string{"a@studio.test"}, "Studio")

	d.Dispatch(contactSubmission(""))
	d.Wait()

	if got := m.recipients(); len(got) != 1 {
		t.Errorf("expected only the admin notification, got %v", got)
	}
}

func TestDispatchSurvivesMailerPanic(t *testing.T) {
	m := &fakeMailer{panicFor: map[string]bool{"a@studio.test": true}}
	d := NewDispatcher(m, []string{"a@studio.test", "b@studio.test"}, "Studio")

	d.Dispatch(contactSubmission("jane@example.com"))
	d.Wait()

	got := m.recipients()
	if len(got) != 3 {
		t.Errorf("a panicking send must not take down the rest, got %v", got)
	}
}
