package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"attendance.service/pkg/logger"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

type EmailProcessor struct {
	emailService core.EmailService
	repo         repository.ReportRepository
}

// NewProcessor sets up a new processor for handling report emails.
// It needs an email service to send emails and a repository to update the job status.
func NewProcessor(emailService core.EmailService, repo repository.ReportRepository) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		repo:         repo,
	}
}

// Process is the main entry point for handling a message from the email queue.
// It sends the stored report and tells the worker to retry if something goes wrong.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.ReportEmailEvent
	if msg.Body == nil {
		return false, 0, errors.New("empty email message")
	}
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal email event")
		return false, 0, err // Do not retry on malformed message
	}
	ctx = logger.EnrichContextWithLogger(telemetry.WithJobID(ctx, event.JobID))

	job, err := p.repo.GetReportJob(ctx, event.JobID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Ctx(ctx).Warn().Msg("Report job not found. Dropping email.")
		return false, 0, nil
	}
	if err != nil {
		// If we can't get the record, retry after a short delay.
		return true, 10, fmt.Errorf("failed to get report job from db for email processing: %w", err)
	}

	if job.EmailStatus == model.StatusEmailCompleted {
		log.Ctx(ctx).Info().Msg("Email already sent. Skipping.")
		return false, 0, nil
	}
	if job.Status != model.ReportCompleted {
		return true, worker.CalculateBackoff(job.EmailRetryCount), fmt.Errorf("report job %s is %s, not ready for email", job.ID, job.Status)
	}

	recipient := event.Recipient
	if recipient == "" {
		recipient = job.Recipient
	}

	err = p.emailService.SendMonthlyReport(ctx, recipient, core.ReportSubject(job.Month, job.Year), job.SummaryText)
	if err != nil {
		newCount := job.EmailRetryCount + 1
		if newCount >= worker.MaxAttempts {
			if uerr := p.repo.UpdateEmailStatus(ctx, job.ID, model.StatusEmailFailed, newCount); uerr != nil {
				log.Ctx(ctx).Error().Err(uerr).Msg("Failed to mark email failed")
			}
			return false, 0, err
		}
		if uerr := p.repo.UpdateEmailStatus(ctx, job.ID, model.StatusEmailPending, newCount); uerr != nil {
			log.Ctx(ctx).Error().Err(uerr).Msg("Failed to record email retry")
		}
		return true, worker.CalculateBackoff(newCount), err
	}

	err = p.repo.UpdateEmailStatus(ctx, job.ID, model.StatusEmailCompleted, 0)
	return false, 0, err
}
