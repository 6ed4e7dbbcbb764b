package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/repository"
)

type mockIntakeService struct {
	submitErr error
	lastReq   *domain.SubmitRequest
}

func (m *mockIntakeService) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSubmission, error) {
	m.lastReq = req
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return &domain.FormSubmission{
		ID:        42,
		FormName:  req.FormName,
		Email:     req.Email,
		Data:      req.Data,
		Status:    domain.StatusNew,
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockIntakeService) GetSubmission(ctx context.Context, id int64) (*domain.FormSubmission, error) {
	return nil, nil
}

func (m *mockIntakeService) ListSubmissions(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error) {
	return nil, nil
}

func (m *mockIntakeService) UpdateSubmissionStatus(ctx context.Context, id int64, status string) (*domain.FormSubmission, error) {
	return nil, nil
}

func postForm(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/forms", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.SubmitForm(rec, req)
	return rec
}

func TestSubmitFormSuccess(t *testing.T) {
	svc := &mockIntakeService{}
	h := New(nil, svc, nil, nil)

	rec := postForm(t, h, `{
		"formName": "contact",
		"email": "jane@example.com",
		"data": {"name": "Jane", "message": "Hello"}
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.ID != 42 {
		t.Errorf("expected success with id 42, got %+v", resp)
	}
	if svc.lastReq.FormName != "contact" {
		t.Errorf("expected formName passed through, got %q", svc.lastReq.FormName)
	}
}

func TestSubmitFormValidationFailure(t *testing.T) {
	h := New(nil, &mockIntakeService{}, nil, nil)

	rec := postForm(t, h, `{"email": "jane@example.com", "data": {"x": 1}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp submitErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if len(resp.Fields) == 0 || resp.Fields[0].Field != "formName" {
		t.Errorf("expected a formName field error, got %+v", resp.Fields)
	}
}

func TestSubmitFormMalformedJSON(t *testing.T) {
	h := New(nil, &mockIntakeService{}, nil, nil)

	rec := postForm(t, h, `{"formName": "contact",`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
