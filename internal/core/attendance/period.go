package attendance

import (
	"fmt"
	"time"

	"attendance.service/internal/core/model"
)

// Period is the range of calendar dates evaluated for one month. For the
// current month it stops at today; future dates are never materialized.
type Period struct {
	Month int
	Year  int
	From  time.Time
	To    time.Time
	Today string
}

// ValidateMonth rejects out-of-range month/year pairs.
func ValidateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d must be between 1 and 12", ErrInvalidInput, month)
	}
	if year < 1000 || year > 9999 {
		return fmt.Errorf("%w: year %d must have four digits", ErrInvalidInput, year)
	}
	return nil
}

// NewPeriod builds the evaluation range for month/year as seen at now. The
// location of now decides what "today" is.
func NewPeriod(month, year int, now time.Time) (Period, error) {
	if err := ValidateMonth(month, year); err != nil {
		return Period{}, err
	}

	loc := now.Location()
	today := startOfDay(now)
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, -1)
	if to.After(today) {
		// Current month stops at today; a future month ends before it starts.
		to = today
	}

	return Period{
		Month: month,
		Year:  year,
		From:  from,
		To:    to,
		Today: today.Format(model.DateLayout),
	}, nil
}

// Empty reports whether the period contains no dates.
func (p Period) Empty() bool {
	return p.To.Before(p.From)
}

// Dates lists every date of the period in ascending order.
func (p Period) Dates() []string {
	if p.Empty() {
		return nil
	}
	dates := make([]string, 0, p.To.Day())
	for d := p.From; !d.After(p.To); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates
}

// Contains reports whether an ISO date falls inside the period.
func (p Period) Contains(date string) bool {
	if p.Empty() {
		return false
	}
	return date >= p.From.Format(model.DateLayout) && date <= p.To.Format(model.DateLayout)
}

// IsToday reports whether date is the current calendar date.
func (p Period) IsToday(date string) bool {
	return date == p.Today
}

// Last returns the final date of the period, or "" when it is empty.
func (p Period) Last() string {
	if p.Empty() {
		return ""
	}
	return p.To.Format(model.DateLayout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
