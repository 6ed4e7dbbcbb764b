package service

import (
	"context"
	"fmt"

	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/notify"
	"github.com/halcyonweb/backoffice/internal/repository"
	"github.com/halcyonweb/backoffice/pkg/events"
	"github.com/halcyonweb/backoffice/pkg/logger"
)

type IntakeService interface {
	Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSubmission, error)
	GetSubmission(ctx context.Context, id int64) (*domain.FormSubmission, error)
	ListSubmissions(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status string) (*domain.FormSubmission, error)
}

type intakeService struct {
	subRepo    repository.SubmissionRepository
	dispatcher *notify.Dispatcher
	bus        events.Publisher
}

func NewIntakeService(subRepo repository.SubmissionRepository, dispatcher *notify.Dispatcher, bus events.Publisher) IntakeService {
	return &intakeService{
		subRepo:    subRepo,
		dispatcher: dispatcher,
		bus:        bus,
	}
}

// Submit validates, persists, then schedules notification. The caller gets
// its answer once the row is stored; emails and events happen after the
// fact and cannot fail the submission.
func (s *intakeService) Submit(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSubmission, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.subRepo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.dispatcher.Dispatch(sub)

	if err := s.bus.Publish(ctx, events.FormSubmitted, events.FormSubmittedEvent{
		SubmissionID: sub.ID,
		FormName:     sub.FormName,
		Email:        sub.Email,
		Source:       sub.Source,
		CreatedAt:    sub.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish submission event", "error", err, "submission_id", sub.ID)
	}

	return sub, nil
}

func (s *intakeService) GetSubmission(ctx context.Context, id int64) (*domain.FormSubmission, error) {
	sub, err := s.subRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

func (s *intakeService) ListSubmissions(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error) {
	subs, err := s.subRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

func (s *intakeService) UpdateSubmissionStatus(ctx context.Context, id int64, status string) (*domain.FormSubmission, error) {
	if status == "" {
		return nil, fmt.Errorf("status is required")
	}
	sub, err := s.subRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}
	return sub, nil
}
