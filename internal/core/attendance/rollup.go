package attendance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"attendance.service/internal/core/model"
)

// Calculator rolls resolved days up into a MonthlySummary.
type Calculator struct {
	loc *time.Location
}

// NewCalculator creates a Calculator for dates in loc, defaulting to UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc}
}

// Summarize computes the monthly counters. It never fails; missing or bad
// numbers contribute zero. days must come from the same buckets.
func (c *Calculator) Summarize(p Period, days []model.DayRecord, b *Buckets, totalDays int) model.MonthlySummary {
	if totalDays <= 0 {
		totalDays = model.DefaultTotalDays
	}
	if b == nil {
		b = newBuckets()
	}

	s := model.MonthlySummary{
		Month:     p.Month,
		Year:      p.Year,
		TotalDays: totalDays,
	}

	totalHours := decimal.Zero
	for i := range days {
		day := &days[i]
		if day.CheckIn != "" {
			s.WorkingDays++
		}
		if day.Missed {
			s.MissedDays++
		}
		switch day.Status {
		case model.DailyLeave:
			s.LeaveDays++
		case model.DailyPermission:
			s.PermissionCount++
		case model.DailyLate:
			s.LateDays++
		}

		if recs, ok := b.Overtime[day.Date]; ok && hasApprovedOvertime(recs) {
			day.OvertimeHours = approvedOvertime(recs).InexactFloat64()
		}
		totalHours = totalHours.
			Add(decimal.NewFromFloat(nonNegative(day.RegularHours))).
			Add(decimal.NewFromFloat(nonNegative(day.OvertimeHours)))
	}

	if b.SnapshotFallback {
		s.MissedDays = max(0, totalDays-s.WorkingDays)
	}

	s.PermissionHours = round2(c.permissionHours(b))
	s.OvertimeHours = round2(c.overtimeHours(b))
	s.TotalHours = round2(totalHours)
	if len(b.Degraded) > 0 {
		s.DegradedKinds = append([]model.RecordKind(nil), b.Degraded...)
	}
	s.Days = days
	return s
}

func (c *Calculator) permissionHours(b *Buckets) decimal.Decimal {
	sum := decimal.Zero
	for _, recs := range b.Permissions {
		for _, rec := range recs {
			if !rec.Status.Approved() {
				continue
			}
			sum = sum.Add(decimal.NewFromFloat(c.duration(rec.StartTime, rec.EndTime)))
		}
	}
	return sum
}

// duration returns end-start in hours; unparseable or reversed ranges are 0.
func (c *Calculator) duration(start, end string) float64 {
	from, ok := ParseClock(start, c.loc)
	if !ok {
		return 0
	}
	to, ok := ParseClock(end, c.loc)
	if !ok {
		return 0
	}
	return nonNegative((to - from).Hours())
}

func (c *Calculator) overtimeHours(b *Buckets) decimal.Decimal {
	sum := decimal.NewFromFloat(nonNegative(b.UndatedOvertime))
	for _, recs := range b.Overtime {
		sum = sum.Add(approvedOvertime(recs))
	}
	if sum.IsNegative() {
		return decimal.Zero
	}
	return sum
}

func approvedOvertime(recs []model.OvertimeRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, rec := range recs {
		if rec.Status.Approved() {
			sum = sum.Add(decimal.NewFromFloat(nonNegative(rec.TotalHours)))
		}
	}
	return sum
}

func hasApprovedOvertime(recs []model.OvertimeRecord) bool {
	for _, rec := range recs {
		if rec.Status.Approved() {
			return true
		}
	}
	return false
}

// nonNegative maps NaN, infinities and negatives to zero.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
