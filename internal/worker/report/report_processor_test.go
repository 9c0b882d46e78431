package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

type statusUpdate struct {
	status model.ReportJobStatus
	retry  int
}

type fakeRepo struct {
	job       *model.ReportJob
	getErr    error
	updates   []statusUpdate
	completed string
	storeErr  error
}

func (f *fakeRepo) CreateReportJob(context.Context, *model.ReportJob) error { return nil }

func (f *fakeRepo) GetReportJob(context.Context, string) (*model.ReportJob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.job, nil
}

func (f *fakeRepo) UpdateReportStatus(_ context.Context, _ string, status model.ReportJobStatus, retryCount int) error {
	f.updates = append(f.updates, statusUpdate{status: status, retry: retryCount})
	return nil
}

func (f *fakeRepo) CompleteReport(_ context.Context, _ string, text string) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.completed = text
	return nil
}

func (f *fakeRepo) UpdateEmailStatus(context.Context, string, model.EmailStatus, int) error {
	return nil
}

type fakeEngine struct {
	rows []model.MonthlySummary
	err  error
}

func (f *fakeEngine) SummarizeBatch(context.Context, []string, int, int) ([]model.MonthlySummary, error) {
	return f.rows, f.err
}

type fakeProducer struct {
	emails []interface{}
	err    error
}

func (f *fakeProducer) PublishReport(context.Context, interface{}) error { return nil }

func (f *fakeProducer) PublishEmail(_ context.Context, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, body)
	return nil
}

func reportMessage(jobID string) types.Message {
	return types.Message{Body: aws.String(fmt.Sprintf(`{"jobId":%q,"month":3,"year":2025}`, jobID))}
}

func pendingJob() *model.ReportJob {
	return &model.ReportJob{
		ID: "job-1", EmployeeIDs: []string{"e1"}, Month: 3, Year: 2025, Recipient: "hr@example.com",
		Status: model.ReportPending, EmailStatus: model.StatusEmailPending,
	}
}

func TestReportProcessor_Success(t *testing.T) {
	repo := &fakeRepo{job: pendingJob()}
	producer := &fakeProducer{}
	engine := &fakeEngine{rows: []model.MonthlySummary{{EmployeeID: "e1", TotalDays: 28, WorkingDays: 20}}}

	retry, _, err := NewProcessor(repo, engine, producer).Process(context.Background(), reportMessage("job-1"))
	require.NoError(t, err)
	assert.False(t, retry)
	assert.Contains(t, repo.completed, "Attendance summary for March 2025")
	assert.Equal(t, []statusUpdate{{model.ReportProcessing, 0}}, repo.updates)

	require.Len(t, producer.emails, 1)
	event := producer.emails[0].(messaging.ReportEmailEvent)
	assert.Equal(t, "job-1", event.JobID)
	assert.Equal(t, "hr@example.com", event.Recipient)
}

func TestReportProcessor_SkipsFinishedJobs(t *testing.T) {
	job := pendingJob()
	job.Status = model.ReportCompleted
	job.EmailStatus = model.StatusEmailCompleted
	repo := &fakeRepo{job: job}
	engine := &fakeEngine{err: errors.New("must not be called")}

	retry, _, err := NewProcessor(repo, engine, &fakeProducer{}).Process(context.Background(), reportMessage("job-1"))
	assert.NoError(t, err)
	assert.False(t, retry)
	assert.Empty(t, repo.updates)
}

func TestReportProcessor_RepublishesEmailForCompletedJob(t *testing.T) {
	job := pendingJob()
	job.Status = model.ReportCompleted
	producer := &fakeProducer{}

	_, _, err := NewProcessor(&fakeRepo{job: job}, &fakeEngine{}, producer).Process(context.Background(), reportMessage("job-1"))
	require.NoError(t, err)
	assert.Len(t, producer.emails, 1)
}

func TestReportProcessor_RetriesWithBackoff(t *testing.T) {
	job := pendingJob()
	job.RetryCount = 1
	repo := &fakeRepo{job: job}
	engine := &fakeEngine{err: fmt.Errorf("%w: api down", attendance.ErrRosterUnavailable)}

	retry, delay, err := NewProcessor(repo, engine, &fakeProducer{}).Process(context.Background(), reportMessage("job-1"))
	assert.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(40), delay)
	assert.Equal(t, statusUpdate{model.ReportPending, 2}, repo.updates[len(repo.updates)-1])
}

func TestReportProcessor_FailsAfterMaxAttempts(t *testing.T) {
	job := pendingJob()
	job.RetryCount = 4
	repo := &fakeRepo{job: job, storeErr: errors.New("db down")}

	retry, _, err := NewProcessor(repo, &fakeEngine{}, &fakeProducer{}).Process(context.Background(), reportMessage("job-1"))
	assert.Error(t, err)
	assert.False(t, retry)
	assert.Equal(t, statusUpdate{model.ReportFailed, 5}, repo.updates[len(repo.updates)-1])
}

func TestReportProcessor_InvalidJobIsNotRetried(t *testing.T) {
	repo := &fakeRepo{job: pendingJob()}
	engine := &fakeEngine{err: fmt.Errorf("%w: month 13", attendance.ErrInvalidInput)}

	retry, _, err := NewProcessor(repo, engine, &fakeProducer{}).Process(context.Background(), reportMessage("job-1"))
	assert.ErrorIs(t, err, attendance.ErrInvalidInput)
	assert.False(t, retry)
	assert.Equal(t, model.ReportFailed, repo.updates[len(repo.updates)-1].status)
}

func TestReportProcessor_EmailPublishFailureKeepsReport(t *testing.T) {
	repo := &fakeRepo{job: pendingJob()}
	producer := &fakeProducer{err: errors.New("queue down")}

	retry, delay, err := NewProcessor(repo, &fakeEngine{}, producer).Process(context.Background(), reportMessage("job-1"))
	assert.Error(t, err)
	assert.True(t, retry)
	assert.Equal(t, int32(20), delay)
	assert.NotEmpty(t, repo.completed)
	assert.Equal(t, []statusUpdate{{model.ReportProcessing, 0}}, repo.updates)
}

func TestReportProcessor_MalformedAndMissing(t *testing.T) {
	p := NewProcessor(&fakeRepo{getErr: repository.ErrNotFound}, &fakeEngine{}, &fakeProducer{})

	retry, _, err := p.Process(context.Background(), types.Message{Body: aws.String("{not json")})
	assert.Error(t, err)
	assert.False(t, retry)

	retry, _, err = p.Process(context.Background(), reportMessage("missing"))
	assert.NoError(t, err)
	assert.False(t, retry)
}
