package attendance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance.service/internal/core/model"
)

func marchPeriod(t *testing.T) Period {
	t.Helper()
	p, err := NewPeriod(3, 2025, testNow)
	require.NoError(t, err)
	return p
}

func TestCalculator_PermissionHours(t *testing.T) {
	c := NewCalculator(time.UTC)
	b := newBuckets()
	b.Permissions["2025-03-04"] = []model.PermissionRecord{
		{StartTime: "09:00", EndTime: "11:30", Status: model.StatusApproved},
	}

	s := c.Summarize(marchPeriod(t), nil, b, 0)
	assert.Equal(t, 2.5, s.PermissionHours)
}

func TestCalculator_PermissionHoursExcludesUnapprovedAndBadRanges(t *testing.T) {
	c := NewCalculator(time.UTC)
	records := []model.PermissionRecord{
		{StartTime: "13:00", EndTime: "14:20", Status: model.StatusApproved},
		{StartTime: "08:00", EndTime: "12:00", Status: model.StatusPending},
		{StartTime: "08:00", EndTime: "09:00", Status: model.StatusRejected},
		{StartTime: "15:00", EndTime: "14:00", Status: model.StatusApproved},
		{StartTime: "later", EndTime: "14:00", Status: model.StatusApproved},
		{StartTime: "2025-03-05T10:00:00Z", EndTime: "2025-03-05T10:10:00Z", Status: model.StatusApproved},
	}

	forward := newBuckets()
	forward.Permissions["2025-03-05"] = records

	reversed := newBuckets()
	for i := len(records) - 1; i >= 0; i-- {
		reversed.Permissions["2025-03-05"] = append(reversed.Permissions["2025-03-05"], records[i])
	}

	p := marchPeriod(t)
	a := c.Summarize(p, nil, forward, 0)
	b := c.Summarize(p, nil, reversed, 0)

	// 1h20m + 10m
	assert.Equal(t, 1.5, a.PermissionHours)
	assert.Equal(t, a.PermissionHours, b.PermissionHours)
}

func TestCalculator_OvertimeExcludesPending(t *testing.T) {
	c := NewCalculator(time.UTC)
	b := newBuckets()
	b.Overtime["2025-03-04"] = []model.OvertimeRecord{
		{Date: "2025-03-04", TotalHours: 1.5, Status: model.StatusApproved},
		{Date: "2025-03-04", TotalHours: 2, Status: model.StatusPending},
	}

	s := c.Summarize(marchPeriod(t), nil, b, 0)
	assert.Equal(t, 1.5, s.OvertimeHours)
}

func TestCalculator_OvertimeNeverNegative(t *testing.T) {
	c := NewCalculator(time.UTC)
	b := newBuckets()
	b.Overtime["2025-03-04"] = []model.OvertimeRecord{
		{TotalHours: -4, Status: model.StatusApproved},
		{TotalHours: math.NaN(), Status: model.StatusApproved},
		{TotalHours: math.Inf(1), Status: model.StatusApproved},
	}
	b.UndatedOvertime = -2

	s := c.Summarize(marchPeriod(t), nil, b, 0)
	assert.Equal(t, 0.0, s.OvertimeHours)
}

func TestCalculator_OvertimeRounding(t *testing.T) {
	c := NewCalculator(time.UTC)
	b := newBuckets()
	b.Overtime["2025-03-04"] = []model.OvertimeRecord{
		{TotalHours: 0.1, Status: model.StatusApproved},
		{TotalHours: 0.2, Status: model.StatusApproved},
		{TotalHours: 1.005, Status: model.StatusApproved},
	}

	s := c.Summarize(marchPeriod(t), nil, b, 0)
	assert.Equal(t, 1.31, s.OvertimeHours)
}

func TestCalculator_CountersAndTotalHours(t *testing.T) {
	c := NewCalculator(time.UTC)
	days := []model.DayRecord{
		{Date: "2025-03-03", Status: model.DailyPresent, CheckIn: "08:00:00", CheckOut: "17:00:00", RegularHours: 8, OvertimeHours: 0.5},
		{Date: "2025-03-04", Status: model.DailyLate, CheckIn: "09:30:00", CheckOut: "17:00:00", RegularHours: 7.5},
		{Date: "2025-03-05", Status: model.DailyAbsent, CheckIn: "08:00:00", Missed: true, RegularHours: 2},
		{Date: "2025-03-06", Status: model.DailyLeave},
		{Date: "2025-03-07", Status: model.DailyPermission},
		{Date: "2025-03-08", Status: model.DailyAbsent},
	}
	b := newBuckets()
	// Approved records replace the work-log overtime of their date.
	b.Overtime["2025-03-03"] = []model.OvertimeRecord{{TotalHours: 2, Status: model.StatusApproved}}
	b.Overtime["2025-03-04"] = []model.OvertimeRecord{{TotalHours: 3, Status: model.StatusPending}}

	s := c.Summarize(marchPeriod(t), days, b, 22)

	assert.Equal(t, 22, s.TotalDays)
	assert.Equal(t, 3, s.WorkingDays)
	assert.Equal(t, 1, s.MissedDays)
	assert.Equal(t, 1, s.LeaveDays)
	assert.Equal(t, 1, s.PermissionCount)
	assert.Equal(t, 1, s.LateDays)
	assert.Equal(t, 2.0, s.OvertimeHours)
	// 8+2 + 7.5 + 2
	assert.Equal(t, 19.5, s.TotalHours)
	assert.Equal(t, 2.0, s.Days[0].OvertimeHours)
}

func TestCalculator_SnapshotFallbackMissedDays(t *testing.T) {
	c := NewCalculator(time.UTC)
	days := []model.DayRecord{
		{Date: "2025-03-03", Status: model.DailyPresent, CheckIn: "08:00:00", CheckOut: "17:00:00"},
		{Date: "2025-03-04", Status: model.DailyAbsent, CheckIn: "08:00:00", Missed: true},
	}
	b := newBuckets()
	b.SnapshotFallback = true

	s := c.Summarize(marchPeriod(t), days, b, 20)
	assert.Equal(t, 2, s.WorkingDays)
	assert.Equal(t, 18, s.MissedDays)

	s = c.Summarize(marchPeriod(t), days, b, 1)
	assert.Equal(t, 0, s.MissedDays)
}

func TestCalculator_DefaultsTotalDays(t *testing.T) {
	s := NewCalculator(nil).Summarize(marchPeriod(t), nil, nil, 0)
	assert.Equal(t, model.DefaultTotalDays, s.TotalDays)
	assert.Equal(t, 0, s.WorkingDays)
	assert.Nil(t, s.DegradedKinds)
}
