package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/internal/core/model"
)

// ReportJobRepository is the PostgreSQL implementation of ReportRepository.
type ReportJobRepository struct {
	DB *sql.DB
}

// NewReportJobRepository create new instance
func NewReportJobRepository(db *sql.DB) *ReportJobRepository {
	return &ReportJobRepository{DB: db}
}

// CreateReportJob inserts a pending job.
func (r *ReportJobRepository) CreateReportJob(ctx context.Context, job *model.ReportJob) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.report_job_id", job.ID))

	ids, err := json.Marshal(job.EmployeeIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal employee ids: %w", err)
	}

	query := `INSERT INTO report_jobs (id, employee_ids, month, year, recipient, status, retry_count, email_status, email_retry_count)
              VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 0) RETURNING created_at`

	return r.DB.QueryRowContext(ctx, query,
		job.ID, string(ids), job.Month, job.Year, job.Recipient, model.ReportPending, model.StatusEmailPending,
	).Scan(&job.CreatedAt)
}

// GetReportJob fetches a complete report_jobs record by its ID.
func (r *ReportJobRepository) GetReportJob(ctx context.Context, id string) (*model.ReportJob, error) {
	query := `SELECT id, employee_ids, month, year, recipient, status, retry_count, email_status, email_retry_count, summary_text, created_at
	          FROM report_jobs WHERE id = $1`

	var (
		ids     string
		summary sql.NullString
	)
	job := &model.ReportJob{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &ids, &job.Month, &job.Year, &job.Recipient, &job.Status, &job.RetryCount,
		&job.EmailStatus, &job.EmailRetryCount, &summary, &job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if ids != "" {
		if err := json.Unmarshal([]byte(ids), &job.EmployeeIDs); err != nil {
			return nil, fmt.Errorf("failed to decode employee ids of job %s: %w", id, err)
		}
	}
	job.SummaryText = summary.String
	return job, nil
}

// UpdateReportStatus updates the status and retry count of a report job.
func (r *ReportJobRepository) UpdateReportStatus(ctx context.Context, id string, status model.ReportJobStatus, retryCount int) error {
	query := `UPDATE report_jobs
              SET status = $1,
                  retry_count = $2
              WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

// CompleteReport stores the rendered summary and marks the job completed.
func (r *ReportJobRepository) CompleteReport(ctx context.Context, id string, summaryText string) error {
	query := `UPDATE report_jobs SET status = $1, summary_text = $2, retry_count = 0 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, model.ReportCompleted, summaryText, id)
	return err
}

// UpdateEmailStatus updates the status and retry count for report email delivery.
func (r *ReportJobRepository) UpdateEmailStatus(ctx context.Context, id string, status model.EmailStatus, retryCount int) error {
	query := `UPDATE report_jobs SET email_status = $1, email_retry_count = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}
