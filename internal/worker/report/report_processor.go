package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"attendance.service/internal/core"
	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"attendance.service/pkg/logger"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

// BatchSummarizer runs the batch aggregation of a report job.
type BatchSummarizer interface {
	SummarizeBatch(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error)
}

// ReportProcessor handles jobs from the report queue: it aggregates the
// requested employees, stores the rendered report and asks for its delivery.
type ReportProcessor struct {
	repo     repository.ReportRepository
	engine   BatchSummarizer
	producer messaging.QueueProducer
}

// NewProcessor creates a new processor for the report queue.
func NewProcessor(repo repository.ReportRepository, engine BatchSummarizer, producer messaging.QueueProducer) *ReportProcessor {
	return &ReportProcessor{
		repo:     repo,
		engine:   engine,
		producer: producer,
	}
}

// Process is the core logic for handling a message from the report queue.
func (p *ReportProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.ReportRequestedEvent
	if msg.Body == nil {
		return false, 0, errors.New("empty report message")
	}
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal report event")
		return false, 0, err // Do not retry on malformed message
	}
	ctx = logger.EnrichContextWithLogger(telemetry.WithJobID(ctx, event.JobID))

	job, err := p.repo.GetReportJob(ctx, event.JobID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Ctx(ctx).Warn().Msg("Report job not found. Dropping message.")
		return false, 0, nil
	}
	if err != nil {
		return true, 10, fmt.Errorf("failed to get report job from db: %w", err)
	}

	switch job.Status {
	case model.ReportFailed:
		log.Ctx(ctx).Info().Msg("Report job already failed. Skipping.")
		return false, 0, nil
	case model.ReportCompleted:
		if job.EmailStatus != model.StatusEmailPending {
			log.Ctx(ctx).Info().Msg("Report already generated. Skipping.")
			return false, 0, nil
		}
		// Redelivered after the email event could not be published.
		if err := p.publishEmail(ctx, job); err != nil {
			return true, worker.CalculateBackoff(job.EmailRetryCount + 1), err
		}
		return false, 0, nil
	}

	attempt := job.RetryCount + 1
	if err := p.repo.UpdateReportStatus(ctx, job.ID, model.ReportProcessing, job.RetryCount); err != nil {
		return true, worker.CalculateBackoff(attempt), fmt.Errorf("failed to mark report job processing: %w", err)
	}

	log.Ctx(ctx).Info().
		Int("employees", len(job.EmployeeIDs)).
		Int("month", job.Month).
		Int("year", job.Year).
		Int("attempt", attempt).
		Msg("Generating monthly report")

	summaries, err := p.engine.SummarizeBatch(ctx, job.EmployeeIDs, job.Month, job.Year)
	if err != nil {
		return p.fail(ctx, job, attempt, err)
	}

	text := core.FormatMonthlyReport(job.Month, job.Year, summaries)
	if err := p.repo.CompleteReport(ctx, job.ID, text); err != nil {
		return p.fail(ctx, job, attempt, fmt.Errorf("failed to store report: %w", err))
	}

	// The job is COMPLETED from here on; a redelivery only republishes the email event.
	if err := p.publishEmail(ctx, job); err != nil {
		return true, worker.CalculateBackoff(1), err
	}
	return false, 0, nil
}

func (p *ReportProcessor) publishEmail(ctx context.Context, job *model.ReportJob) error {
	event := messaging.ReportEmailEvent{
		JobID:      job.ID,
		Recipient:  job.Recipient,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.producer.PublishEmail(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to publish report email event")
		return fmt.Errorf("failed to publish email event: %w", err)
	}
	return nil
}

// fail records a failed attempt. Invalid jobs and jobs that used up their
// attempts are marked failed and not retried.
func (p *ReportProcessor) fail(ctx context.Context, job *model.ReportJob, attempt int, cause error) (bool, int32, error) {
	if errors.Is(cause, attendance.ErrInvalidInput) || attempt >= worker.MaxAttempts {
		if err := p.repo.UpdateReportStatus(ctx, job.ID, model.ReportFailed, attempt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to mark report job failed")
		}
		return false, 0, cause
	}

	if err := p.repo.UpdateReportStatus(ctx, job.ID, model.ReportPending, attempt); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to record report retry")
	}
	return true, worker.CalculateBackoff(attempt), cause
}
