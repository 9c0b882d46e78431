package core

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

// Summarizer is the aggregation engine as seen by the application services.
type Summarizer interface {
	Summarize(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error)
	SummarizeBatch(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error)
}

type AttendanceService struct {
	engine   Summarizer
	settings repository.SettingsRepository
	reports  repository.ReportRepository
	producer messaging.QueueProducer
}

// NewAttendanceService wires the aggregation engine with the settings and
// report job stores and the report queue producer.
func NewAttendanceService(engine Summarizer, settings repository.SettingsRepository, reports repository.ReportRepository, p messaging.QueueProducer) *AttendanceService {
	return &AttendanceService{
		engine:   engine,
		settings: settings,
		reports:  reports,
		producer: p,
	}
}

// MonthlySummary returns the summary of one employee, days included.
func (s *AttendanceService) MonthlySummary(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error) {
	return s.engine.Summarize(ctx, employeeID, month, year)
}

// BatchSummaries returns one row per employee without per-day detail.
func (s *AttendanceService) BatchSummaries(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error) {
	rows, err := s.engine.SummarizeBatch(ctx, employeeIDs, month, year)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Days = nil
	}
	return rows, nil
}

// GetSetting returns the working days configured for a month.
func (s *AttendanceService) GetSetting(ctx context.Context, month, year int) (model.MonthlySetting, error) {
	if err := attendance.ValidateMonth(month, year); err != nil {
		return model.MonthlySetting{}, err
	}
	return s.settings.GetMonthlySetting(ctx, month, year)
}

// SaveSetting stores the working days of a month. totalDays must be 1..31.
func (s *AttendanceService) SaveSetting(ctx context.Context, month, year, totalDays int) (model.MonthlySetting, error) {
	if err := attendance.ValidateMonth(month, year); err != nil {
		return model.MonthlySetting{}, err
	}
	if totalDays < 1 || totalDays > 31 {
		return model.MonthlySetting{}, fmt.Errorf("%w: totalDays must be between 1 and 31", attendance.ErrInvalidInput)
	}
	return s.settings.UpsertMonthlySetting(ctx, model.MonthlySetting{Month: month, Year: year, TotalDays: totalDays})
}

// RequestReport creates a report job and hands it to the report worker.
func (s *AttendanceService) RequestReport(ctx context.Context, employeeIDs []string, month, year int, recipient string) (*model.ReportJob, error) {
	if err := attendance.ValidateMonth(month, year); err != nil {
		return nil, err
	}
	recipient = strings.TrimSpace(recipient)
	if _, err := mail.ParseAddress(recipient); err != nil {
		return nil, fmt.Errorf("%w: recipient must be an email address", attendance.ErrInvalidInput)
	}

	job := &model.ReportJob{
		ID:          uuid.NewString(),
		EmployeeIDs: employeeIDs,
		Month:       month,
		Year:        year,
		Recipient:   recipient,
		Status:      model.ReportPending,
		EmailStatus: model.StatusEmailPending,
	}
	if job.EmployeeIDs == nil {
		job.EmployeeIDs = []string{}
	}
	if err := s.reports.CreateReportJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create report job: %w", err)
	}

	event := messaging.ReportRequestedEvent{
		JobID:       job.ID,
		Month:       month,
		Year:        year,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.producer.PublishReport(ctx, event); err != nil {
		// The row stays PENDING; the job can be re-requested.
		log.Ctx(ctx).Error().Err(err).Str("job_id", job.ID).Msg("Failed to publish report request")
		return nil, fmt.Errorf("failed to enqueue report job: %w", err)
	}
	return job, nil
}

// GetReport returns a report job by id.
func (s *AttendanceService) GetReport(ctx context.Context, jobID string) (*model.ReportJob, error) {
	return s.reports.GetReportJob(ctx, jobID)
}
