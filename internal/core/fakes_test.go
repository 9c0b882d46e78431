package core

import (
	"context"

	"attendance.service/internal/core/model"
)

type fakeEngine struct {
	summarizeFn func(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error)
	batchFn     func(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error)
}

func (f *fakeEngine) Summarize(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error) {
	return f.summarizeFn(ctx, employeeID, month, year)
}

func (f *fakeEngine) SummarizeBatch(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error) {
	return f.batchFn(ctx, employeeIDs, month, year)
}

type fakeSettingsRepo struct {
	getFn    func(ctx context.Context, month, year int) (model.MonthlySetting, error)
	upsertFn func(ctx context.Context, setting model.MonthlySetting) (model.MonthlySetting, error)
}

func (f *fakeSettingsRepo) GetMonthlySetting(ctx context.Context, month, year int) (model.MonthlySetting, error) {
	return f.getFn(ctx, month, year)
}

func (f *fakeSettingsRepo) UpsertMonthlySetting(ctx context.Context, setting model.MonthlySetting) (model.MonthlySetting, error) {
	return f.upsertFn(ctx, setting)
}

type fakeReportRepo struct {
	created []*model.ReportJob
	jobs    map[string]*model.ReportJob
	err     error
}

func (f *fakeReportRepo) CreateReportJob(_ context.Context, job *model.ReportJob) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, job)
	return nil
}

func (f *fakeReportRepo) GetReportJob(_ context.Context, id string) (*model.ReportJob, error) {
	return f.jobs[id], f.err
}

func (f *fakeReportRepo) UpdateReportStatus(context.Context, string, model.ReportJobStatus, int) error {
	return f.err
}

func (f *fakeReportRepo) CompleteReport(context.Context, string, string) error { return f.err }

func (f *fakeReportRepo) UpdateEmailStatus(context.Context, string, model.EmailStatus, int) error {
	return f.err
}

type fakeProducer struct {
	reports []interface{}
	emails  []interface{}
	err     error
}

func (f *fakeProducer) PublishReport(_ context.Context, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, body)
	return nil
}

func (f *fakeProducer) PublishEmail(_ context.Context, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, body)
	return nil
}
