package recordsapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
)

// BreakerSource guards a RecordSource with one circuit breaker per record
// kind, so a failing endpoint is not hammered by batch fan-outs and cannot
// open the circuit of the others.
type BreakerSource struct {
	next     attendance.RecordSource
	breakers map[model.RecordKind]*gobreaker.CircuitBreaker
}

// NewBreakerSource wraps next. Each breaker trips when at least half of ten
// or more requests in a 60s window fail, and probes again after 30s.
func NewBreakerSource(next attendance.RecordSource) *BreakerSource {
	kinds := map[model.RecordKind]string{
		model.KindWorkLog:    "Records-API-worklog",
		model.KindPermission: "Records-API-permission",
		model.KindOvertime:   "Records-API-overtime",
		model.KindLeave:      "Records-API-daily-attendance",
	}
	breakers := make(map[model.RecordKind]*gobreaker.CircuitBreaker, len(kinds))
	for kind, name := range kinds {
		breakers[kind] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 10 && failureRatio >= 0.5
			},
			IsSuccessful: isSuccessful,
		})
	}
	return &BreakerSource{next: next, breakers: breakers}
}

var _ attendance.RecordSource = (*BreakerSource)(nil)

func (b *BreakerSource) WorkLog(ctx context.Context, employeeID string, month, year int) ([]model.WorkLogEntry, error) {
	return execute(b.breakers[model.KindWorkLog], func() ([]model.WorkLogEntry, error) {
		return b.next.WorkLog(ctx, employeeID, month, year)
	})
}

func (b *BreakerSource) Permissions(ctx context.Context, employeeID string, month, year int) ([]model.PermissionRecord, error) {
	return execute(b.breakers[model.KindPermission], func() ([]model.PermissionRecord, error) {
		return b.next.Permissions(ctx, employeeID, month, year)
	})
}

func (b *BreakerSource) Overtime(ctx context.Context, employeeID string, month, year int) (attendance.OvertimeSummary, error) {
	return execute(b.breakers[model.KindOvertime], func() (attendance.OvertimeSummary, error) {
		return b.next.Overtime(ctx, employeeID, month, year)
	})
}

// DailyAttendance snapshots only feed leave records, so they share the leave breaker.
func (b *BreakerSource) DailyAttendance(ctx context.Context, date string) ([]model.DailyAttendance, error) {
	return execute(b.breakers[model.KindLeave], func() ([]model.DailyAttendance, error) {
		return b.next.DailyAttendance(ctx, date)
	})
}

// State exposes the breaker state of one record kind for health reporting.
// Kinds without a breaker report closed.
func (b *BreakerSource) State(kind model.RecordKind) gobreaker.State {
	cb, ok := b.breakers[kind]
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

// isSuccessful keeps caller cancellation and client errors out of the
// failure counts; only transport failures, timeouts and 5xx count.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= http.StatusBadRequest && se.Code < http.StatusInternalServerError
	}
	return false
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	v, err := cb.Execute(func() (interface{}, error) {
		res, err := fn()
		return res, err
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
