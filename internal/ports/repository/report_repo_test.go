package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance.service/internal/core/model"
)

var reportColumns = []string{
	"id", "employee_ids", "month", "year", "recipient", "status", "retry_count",
	"email_status", "email_retry_count", "summary_text", "created_at",
}

func TestReportJobRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO report_jobs").
		WithArgs("job-1", `["e1","e2"]`, 3, 2025, "hr@example.com", model.ReportPending, model.StatusEmailPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	job := &model.ReportJob{ID: "job-1", EmployeeIDs: []string{"e1", "e2"}, Month: 3, Year: 2025, Recipient: "hr@example.com"}
	require.NoError(t, NewReportJobRepository(db).CreateReportJob(context.Background(), job))
	assert.Equal(t, created, job.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, employee_ids, month, year").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(reportColumns).AddRow(
			"job-1", `["e1"]`, 3, 2025, "hr@example.com", "COMPLETED", 0, "PENDING", 1, "report body", created,
		))

	job, err := NewReportJobRepository(db).GetReportJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, job.EmployeeIDs)
	assert.Equal(t, model.ReportCompleted, job.Status)
	assert.Equal(t, model.StatusEmailPending, job.EmailStatus)
	assert.Equal(t, 1, job.EmailRetryCount)
	assert.Equal(t, "report body", job.SummaryText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportJobRepository_GetNullSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, employee_ids").
		WillReturnRows(sqlmock.NewRows(reportColumns).AddRow(
			"job-2", `[]`, 3, 2025, "hr@example.com", "PENDING", 0, "PENDING", 0, nil, time.Now(),
		))

	job, err := NewReportJobRepository(db).GetReportJob(context.Background(), "job-2")
	require.NoError(t, err)
	assert.Equal(t, "", job.SummaryText)
	assert.Empty(t, job.EmployeeIDs)
}

func TestReportJobRepository_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, employee_ids").WillReturnError(sql.ErrNoRows)

	_, err = NewReportJobRepository(db).GetReportJob(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportJobRepository_Updates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE report_jobs").
		WithArgs(model.ReportProcessing, 2, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE report_jobs SET status").
		WithArgs(model.ReportCompleted, "text", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE report_jobs SET email_status").
		WithArgs(model.StatusEmailCompleted, 0, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReportJobRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.UpdateReportStatus(ctx, "job-1", model.ReportProcessing, 2))
	require.NoError(t, repo.CompleteReport(ctx, "job-1", "text"))
	require.NoError(t, repo.UpdateEmailStatus(ctx, "job-1", model.StatusEmailCompleted, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}
