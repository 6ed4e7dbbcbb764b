package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halcyonweb/backoffice/internal/domain"
)

// SubmissionFilter narrows admin listings of stored submissions.
type SubmissionFilter struct {
	FormName string
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type SubmissionRepository interface {
	Create(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSubmission, error)
	GetByID(ctx context.Context, id int64) (*domain.FormSubmission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]domain.FormSubmission, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.FormSubmission, error)
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

const submissionCols = `id, form_name, data, email, phone, status, tags, source, user_id, created_at`

func (r *submissionRepository) Create(ctx context.Context, req *domain.SubmitRequest) (*domain.FormSubmission, error) {
	const q = `
		INSERT INTO form_submissions (form_name, data, email, phone, status, tags, source, user_id)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'new'), $6, $7, $8)
		RETURNING ` + submissionCols

	payload, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.FormSubmission
	var data []byte
	err = r.pool.QueryRow(ctx, q,
		req.FormName, payload, req.Email, req.Phone, req.Status, req.Tags, req.Source, req.UserID,
	).Scan(
		&s.ID, &s.FormName, &data, &s.Email, &s.Phone, &s.Status, &s.Tags, &s.Source, &s.UserID, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("failed to decode stored payload: %w", err)
	}

	return &s, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*domain.FormSubmission, error) {
	const q = `SELECT ` + submissionCols + ` FROM form_submissions WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.FormSubmission
	var data []byte
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.FormName, &data, &s.Email, &s.Phone, &s.Status, &s.Tags, &s.Source, &s.UserID, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("failed to decode stored payload: %w", err)
	}
	return &s, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]domain.FormSubmission, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + submissionCols + ` FROM form_submissions WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.FormName != "" {
		q += fmt.Sprintf(" AND form_name = $%d", idx)
		args = append(args, filter.FormName)
		idx++
	}
	if filter.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.From != nil {
		q += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		q += fmt.Sprintf(" AND created_at < $%d", idx)
		args = append(args, *filter.To)
		idx++
	}

	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.FormSubmission
	for rows.Next() {
		var s domain.FormSubmission
		var data []byte
		if err := rows.Scan(
			&s.ID, &s.FormName, &data, &s.Email, &s.Phone, &s.Status, &s.Tags, &s.Source, &s.UserID, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &s.Data); err != nil {
			return nil, fmt.Errorf("failed to decode stored payload: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.FormSubmission, error) {
	const q = `
		UPDATE form_submissions
		SET status = $2
		WHERE id = $1
		RETURNING ` + submissionCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.FormSubmission
	var data []byte
	err := r.pool.QueryRow(ctx, q, id, status).Scan(
		&s.ID, &s.FormName, &data, &s.Email, &s.Phone, &s.Status, &s.Tags, &s.Source, &s.UserID, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("failed to decode stored payload: %w", err)
	}
	return &s, nil
}
