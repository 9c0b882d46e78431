package repository

import (
	"context"
	"errors"

	"attendance.service/internal/core/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// SettingsRepository contract
type SettingsRepository interface {
	GetMonthlySetting(ctx context.Context, month, year int) (model.MonthlySetting, error)
	UpsertMonthlySetting(ctx context.Context, setting model.MonthlySetting) (model.MonthlySetting, error)
}

// ReportRepository contract
type ReportRepository interface {
	CreateReportJob(ctx context.Context, job *model.ReportJob) error
	GetReportJob(ctx context.Context, id string) (*model.ReportJob, error)
	UpdateReportStatus(ctx context.Context, id string, status model.ReportJobStatus, retryCount int) error
	CompleteReport(ctx context.Context, id string, summaryText string) error
	UpdateEmailStatus(ctx context.Context, id string, status model.EmailStatus, retryCount int) error
}
