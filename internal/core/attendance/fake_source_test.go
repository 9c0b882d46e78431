package attendance

import (
	"context"
	"sync/atomic"
	"time"

	"attendance.service/internal/core/model"
)

// now is Friday 2025-03-21 14:00 UTC; March 2025 has 21 elapsed dates.
var testNow = time.Date(2025, 3, 21, 14, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fakeSource struct {
	workLogFn     func(ctx context.Context, employeeID string, month, year int) ([]model.WorkLogEntry, error)
	permissionsFn func(ctx context.Context, employeeID string, month, year int) ([]model.PermissionRecord, error)
	overtimeFn    func(ctx context.Context, employeeID string, month, year int) (OvertimeSummary, error)
	dailyFn       func(ctx context.Context, date string) ([]model.DailyAttendance, error)

	dailyCalls atomic.Int64
}

func (f *fakeSource) WorkLog(ctx context.Context, employeeID string, month, year int) ([]model.WorkLogEntry, error) {
	if f.workLogFn == nil {
		return nil, nil
	}
	return f.workLogFn(ctx, employeeID, month, year)
}

func (f *fakeSource) Permissions(ctx context.Context, employeeID string, month, year int) ([]model.PermissionRecord, error) {
	if f.permissionsFn == nil {
		return nil, nil
	}
	return f.permissionsFn(ctx, employeeID, month, year)
}

func (f *fakeSource) Overtime(ctx context.Context, employeeID string, month, year int) (OvertimeSummary, error) {
	if f.overtimeFn == nil {
		return OvertimeSummary{HasRecords: true}, nil
	}
	return f.overtimeFn(ctx, employeeID, month, year)
}

func (f *fakeSource) DailyAttendance(ctx context.Context, date string) ([]model.DailyAttendance, error) {
	f.dailyCalls.Add(1)
	if f.dailyFn == nil {
		return nil, nil
	}
	return f.dailyFn(ctx, date)
}

type fakeSettings struct {
	setting model.MonthlySetting
	err     error
}

func (f *fakeSettings) GetMonthlySetting(ctx context.Context, month, year int) (model.MonthlySetting, error) {
	if f.err != nil {
		return model.MonthlySetting{}, f.err
	}
	if f.setting.TotalDays == 0 {
		return model.MonthlySetting{Month: month, Year: year, TotalDays: model.DefaultTotalDays}, nil
	}
	return f.setting, nil
}

func fullDay(date string) model.WorkLogEntry {
	return model.WorkLogEntry{Date: date, CheckIn: "08:30", CheckOut: "17:00", RegularHours: 8}
}

func marchDate(day int) string {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
}
