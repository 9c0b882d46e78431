package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"attendance.service/internal/core/model"
	"attendance.service/pkg/logger"
	"attendance.service/pkg/telemetry"
)

// SettingsStore contract for monthly working-day settings.
type SettingsStore interface {
	GetMonthlySetting(ctx context.Context, month, year int) (model.MonthlySetting, error)
}

// Options tunes an Engine. Zero values pick defaults.
type Options struct {
	FetchTimeout     time.Duration
	FetchConcurrency int
	BatchConcurrency int
	LateCutoff       time.Duration
	Location         *time.Location
	Now              func() time.Time
}

// Engine runs the fetch, resolve and roll-up pipeline for employees.
type Engine struct {
	fetcher          *Fetcher
	resolver         *Resolver
	calculator       *Calculator
	settings         SettingsStore
	batchConcurrency int
	loc              *time.Location
	now              func() time.Time
}

// NewEngine wires an Engine over a record source and a settings store.
func NewEngine(source RecordSource, settings SettingsStore, opts Options) *Engine {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	batch := opts.BatchConcurrency
	if batch <= 0 {
		batch = 4
	}
	return &Engine{
		fetcher:          NewFetcher(source, opts.FetchTimeout, opts.FetchConcurrency),
		resolver:         NewResolver(opts.LateCutoff, loc),
		calculator:       NewCalculator(loc),
		settings:         settings,
		batchConcurrency: batch,
		loc:              loc,
		now:              now,
	}
}

// Summarize computes the monthly summary of one employee.
func (e *Engine) Summarize(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	p, err := NewPeriod(month, year, e.now().In(e.loc))
	if err != nil {
		return nil, err
	}

	cache := NewSnapshotCache()
	defer cache.Clear()

	totalDays, settingsErr := e.totalDays(ctx, month, year)
	summary, err := e.pipeline(ctx, employeeID, p, totalDays, cache)
	if err != nil {
		return nil, err
	}
	if settingsErr != nil {
		summary.DegradedKinds = append(summary.DegradedKinds, model.KindSettings)
	}
	return &summary, nil
}

// SummarizeBatch computes summaries for many employees concurrently. Rows
// keep the order of employeeIDs; a failed employee yields a zeroed row with
// Error set. An empty list summarizes everyone in the latest daily snapshot.
func (e *Engine) SummarizeBatch(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error) {
	p, err := NewPeriod(month, year, e.now().In(e.loc))
	if err != nil {
		return nil, err
	}

	cache := NewSnapshotCache()
	defer cache.Clear()

	ids := dedupe(employeeIDs)
	if len(employeeIDs) == 0 {
		ids, err = e.roster(ctx, p, cache)
		if err != nil {
			return nil, err
		}
	}

	totalDays, settingsErr := e.totalDays(ctx, month, year)

	summaries := make([]model.MonthlySummary, len(ids))
	var g errgroup.Group
	g.SetLimit(e.batchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			summaries[i] = e.isolated(ctx, id, p, totalDays, cache)
			if settingsErr != nil {
				summaries[i].DegradedKinds = append(summaries[i].DegradedKinds, model.KindSettings)
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Ctx(ctx).Info().
		Int("employees", len(ids)).
		Int("month", month).
		Int("year", year).
		Int("cached_dates", cache.Len()).
		Msg("Batch aggregation finished")
	return summaries, nil
}

// isolated runs one pipeline and turns every failure, panics included, into
// an error row.
func (e *Engine) isolated(ctx context.Context, employeeID string, p Period, totalDays int, cache *SnapshotCache) (summary model.MonthlySummary) {
	defer func() {
		if r := recover(); r != nil {
			log.Ctx(ctx).Error().Interface("panic", r).Str("employee_id", employeeID).Msg("Aggregation panicked")
			summary = failedSummary(employeeID, p, totalDays, fmt.Errorf("%w: internal error", ErrWorkLogUnavailable))
		}
	}()

	if strings.TrimSpace(employeeID) == "" {
		return failedSummary(employeeID, p, totalDays, fmt.Errorf("%w: employee id is required", ErrInvalidInput))
	}
	s, err := e.pipeline(ctx, employeeID, p, totalDays, cache)
	if err != nil {
		return failedSummary(employeeID, p, totalDays, err)
	}
	return s
}

func (e *Engine) pipeline(ctx context.Context, employeeID string, p Period, totalDays int, cache *SnapshotCache) (model.MonthlySummary, error) {
	ctx, span := otel.Tracer("attendance-engine").Start(ctx, "summarize_employee",
		trace.WithAttributes(
			attribute.String("app.employee_id", employeeID),
			attribute.Int("app.month", p.Month),
			attribute.Int("app.year", p.Year),
		),
	)
	defer span.End()
	ctx = logger.EnrichContextWithLogger(telemetry.WithEmployeeID(ctx, employeeID))

	b, err := e.fetcher.Fetch(ctx, employeeID, p, cache)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "work log unavailable")
		log.Ctx(ctx).Error().Err(err).Msg("Attendance aggregation failed")
		return model.MonthlySummary{}, err
	}

	days := e.resolveDays(p, b)
	s := e.calculator.Summarize(p, days, b, totalDays)
	s.EmployeeID = employeeID
	s.EmployeeName = cache.Name(employeeID)
	return s, nil
}

func (e *Engine) resolveDays(p Period, b *Buckets) []model.DayRecord {
	dates := p.Dates()
	days := make([]model.DayRecord, 0, len(dates))
	for _, date := range dates {
		in := DayInput{
			Date:        date,
			IsToday:     p.IsToday(date),
			Permissions: b.Permissions[date],
		}
		if entry, ok := b.WorkLogs[date]; ok {
			in.WorkLog = &entry
		}
		if leave, ok := b.Leaves[date]; ok {
			in.Leave = &leave
		}
		days = append(days, e.resolver.Resolve(in))
	}
	return days
}

func (e *Engine) totalDays(ctx context.Context, month, year int) (int, error) {
	if e.settings == nil {
		return model.DefaultTotalDays, nil
	}
	setting, err := e.settings.GetMonthlySetting(ctx, month, year)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("month", month).Int("year", year).Msg("Monthly setting unavailable, using default")
		return model.DefaultTotalDays, err
	}
	if setting.TotalDays < 1 || setting.TotalDays > 31 {
		return model.DefaultTotalDays, nil
	}
	return setting.TotalDays, nil
}

// roster lists the employees present in the snapshot of the period's last date.
func (e *Engine) roster(ctx context.Context, p Period, cache *SnapshotCache) ([]string, error) {
	if p.Empty() {
		return nil, nil
	}
	rows, err := cache.Get(ctx, p.Last(), e.fetcher.snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRosterUnavailable, err)
	}
	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func failedSummary(employeeID string, p Period, totalDays int, err error) model.MonthlySummary {
	msg := err.Error()
	if errors.Is(err, ErrWorkLogUnavailable) {
		msg = ErrWorkLogUnavailable.Error()
	}
	return model.MonthlySummary{
		EmployeeID: employeeID,
		Month:      p.Month,
		Year:       p.Year,
		TotalDays:  totalDays,
		Error:      msg,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
