package domain

import (
	"fmt"
	"strings"
	"time"
)

// FormSubmission is one persisted intake record. It is written once and
// never mutated here; status transitions belong to the admin panel.
type FormSubmission struct {
	ID        int64            `json:"id"`
	FormName  string           `json:"formName"`
	Data      map[string]Value `json:"data"`
	Email     string           `json:"email,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Status    string           `json:"status"`
	Tags      string           `json:"tags,omitempty"`
	Source    string           `json:"source,omitempty"`
	UserID    string           `json:"userId,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// SubmitRequest is the intake envelope. Only formName and data are
// mandatory; data itself is schemaless.
type SubmitRequest struct {
	FormName string           `json:"formName"`
	Data     map[string]Value `json:"data"`
	Email    string           `json:"email,omitempty"`
	Phone    string           `json:"phone,omitempty"`
	Status   string           `json:"status,omitempty"`
	Tags     string           `json:"tags,omitempty"`
	Source   string           `json:"source,omitempty"`
	UserID   string           `json:"userId,omitempty"`
}

const StatusNew = "new"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field problems of a rejected envelope.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (r *SubmitRequest) Normalize() {
	r.FormName = strings.TrimSpace(r.FormName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Status = strings.TrimSpace(r.Status)
	r.Tags = strings.TrimSpace(r.Tags)
	r.Source = strings.TrimSpace(r.Source)
	r.UserID = strings.TrimSpace(r.UserID)
}

// Validate checks the envelope only. No per-form schema exists at this
// layer; the payload passes as long as it is a JSON object.
func (r *SubmitRequest) Validate() error {
	verr := &ValidationError{}

	if r.FormName == "" {
		verr.add("formName", "is required")
	}
	if r.Data == nil {
		verr.add("data", "is required")
	}
	if r.Email != "" && !IsValidEmail(r.Email) {
		verr.add("email", "invalid email format")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
