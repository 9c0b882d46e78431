package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"attendance.service/internal/core/model"
)

// DefaultFetchTimeout bounds every outbound record fetch.
const DefaultFetchTimeout = 10 * time.Second

// OvertimeSummary is the overtime payload for one employee and month.
// HasRecords is false when the source only reported a total.
type OvertimeSummary struct {
	TotalHours float64
	Records    []model.OvertimeRecord
	HasRecords bool
}

// RecordSource contract for the external persistence API.
type RecordSource interface {
	WorkLog(ctx context.Context, employeeID string, month, year int) ([]model.WorkLogEntry, error)
	Permissions(ctx context.Context, employeeID string, month, year int) ([]model.PermissionRecord, error)
	Overtime(ctx context.Context, employeeID string, month, year int) (OvertimeSummary, error)
	DailyAttendance(ctx context.Context, date string) ([]model.DailyAttendance, error)
}

// Buckets holds the raw records of one employee and month keyed by ISO date.
type Buckets struct {
	WorkLogs    map[string]model.WorkLogEntry
	Leaves      map[string]model.LeaveRecord
	Permissions map[string][]model.PermissionRecord
	Overtime    map[string][]model.OvertimeRecord
	// UndatedOvertime is approved overtime reported without per-date records.
	UndatedOvertime float64
	// Snapshots keeps the employee's row of each daily attendance snapshot.
	Snapshots map[string]model.DailyAttendance
	// SnapshotFallback is set when the month had no work-log entries. Missed
	// days are then counted against the monthly setting, and work logs are
	// synthesized from whatever daily attendance snapshots were retrieved.
	SnapshotFallback bool
	Degraded         []model.RecordKind
}

func newBuckets() *Buckets {
	return &Buckets{
		WorkLogs:    map[string]model.WorkLogEntry{},
		Leaves:      map[string]model.LeaveRecord{},
		Permissions: map[string][]model.PermissionRecord{},
		Overtime:    map[string][]model.OvertimeRecord{},
		Snapshots:   map[string]model.DailyAttendance{},
	}
}

// Result is the outcome of one fanned-out task.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

// Fetcher retrieves and normalizes the four record kinds of one employee.
type Fetcher struct {
	source      RecordSource
	timeout     time.Duration
	concurrency int
}

// NewFetcher creates a Fetcher. concurrency bounds the per-date fan-out.
func NewFetcher(source RecordSource, timeout time.Duration, concurrency int) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Fetcher{source: source, timeout: timeout, concurrency: concurrency}
}

// Fetch retrieves every record kind for employeeID in p. Only the work-log
// fetch is fatal; any other kind degrades to an empty mapping.
func (f *Fetcher) Fetch(ctx context.Context, employeeID string, p Period, cache *SnapshotCache) (*Buckets, error) {
	b := newBuckets()
	if p.Empty() {
		return b, nil
	}

	var (
		logs      []model.WorkLogEntry
		perms     []model.PermissionRecord
		permErr   error
		overtime  OvertimeSummary
		otErr     error
		snapshots []Result[model.DailyAttendance]
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gCtx, f.timeout)
		defer cancel()
		var err error
		logs, err = f.source.WorkLog(fctx, employeeID, p.Month, p.Year)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWorkLogUnavailable, err)
		}
		return nil
	})

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gCtx, f.timeout)
		defer cancel()
		perms, permErr = f.source.Permissions(fctx, employeeID, p.Month, p.Year)
		return nil
	})

	g.Go(func() error {
		fctx, cancel := context.WithTimeout(gCtx, f.timeout)
		defer cancel()
		overtime, otErr = f.source.Overtime(fctx, employeeID, p.Month, p.Year)
		return nil
	})

	g.Go(func() error {
		snapshots = f.fetchSnapshots(gCtx, employeeID, p, cache)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, entry := range logs {
		date, ok := NormalizeDate(entry.Date)
		if !ok || !p.Contains(date) {
			continue
		}
		entry.Date = date
		b.WorkLogs[date] = entry
	}

	if permErr != nil {
		f.degrade(ctx, b, model.KindPermission, permErr)
	}
	for _, rec := range perms {
		date, ok := NormalizeDate(rec.Date)
		if !ok || !p.Contains(date) {
			continue
		}
		rec.Date = date
		b.Permissions[date] = append(b.Permissions[date], rec)
	}

	if otErr != nil {
		f.degrade(ctx, b, model.KindOvertime, otErr)
	} else {
		f.bucketOvertime(b, p, overtime)
	}

	f.bucketSnapshots(ctx, b, employeeID, snapshots)

	if len(b.WorkLogs) == 0 {
		b.SnapshotFallback = true
		for date, row := range b.Snapshots {
			b.WorkLogs[date] = model.WorkLogEntry{
				Date:     date,
				CheckIn:  row.CheckInTime,
				CheckOut: row.CheckOutTime,
			}
		}
	}

	return b, nil
}

// fetchSnapshots fans out one daily attendance lookup per date with bounded
// concurrency. Every date yields a Result; failures never stop the others.
func (f *Fetcher) fetchSnapshots(ctx context.Context, employeeID string, p Period, cache *SnapshotCache) []Result[model.DailyAttendance] {
	dates := p.Dates()
	results := make([]Result[model.DailyAttendance], len(dates))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, date := range dates {
		g.Go(func() error {
			rows, err := cache.Get(ctx, date, f.snapshot)
			results[i] = Result[model.DailyAttendance]{Key: date, Err: err}
			if err == nil {
				results[i].Value = rows[employeeID]
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (f *Fetcher) snapshot(ctx context.Context, date string) ([]model.DailyAttendance, error) {
	fctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	return f.source.DailyAttendance(fctx, date)
}

func (f *Fetcher) bucketSnapshots(ctx context.Context, b *Buckets, employeeID string, results []Result[model.DailyAttendance]) {
	failed := 0
	var lastErr error
	for _, res := range results {
		if res.Err != nil {
			failed++
			lastErr = res.Err
			continue
		}
		if res.Value.EmployeeID == "" {
			continue
		}
		b.Snapshots[res.Key] = res.Value
		if isLeaveStatus(res.Value.AttendanceStatus) {
			b.Leaves[res.Key] = model.LeaveRecord{
				EmployeeID: employeeID,
				Date:       res.Key,
				Status:     model.StatusApproved,
			}
		}
	}
	if failed > 0 {
		log.Ctx(ctx).Debug().
			Int("failed_dates", failed).
			Int("total_dates", len(results)).
			Msg("Some daily attendance lookups failed")
		f.degrade(ctx, b, model.KindLeave, lastErr)
	}
}

func (f *Fetcher) bucketOvertime(b *Buckets, p Period, ot OvertimeSummary) {
	if !ot.HasRecords {
		b.UndatedOvertime = nonNegative(ot.TotalHours)
		return
	}
	for _, rec := range ot.Records {
		date, ok := NormalizeDate(rec.Date)
		if !ok || !p.Contains(date) {
			continue
		}
		rec.Date = date
		b.Overtime[date] = append(b.Overtime[date], rec)
	}
}

func (f *Fetcher) degrade(ctx context.Context, b *Buckets, kind model.RecordKind, err error) {
	log.Ctx(ctx).Warn().
		Err(err).
		Str("kind", string(kind)).
		Msg("Record fetch failed, continuing with partial data")
	b.Degraded = append(b.Degraded, kind)
}

func isLeaveStatus(s string) bool {
	switch normalizeStatusText(s) {
	case "leave", "on leave", "onleave":
		return true
	}
	return false
}
