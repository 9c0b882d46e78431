package attendance

import (
	"fmt"
	"time"

	"attendance.service/internal/core/model"
)

// DefaultLateCutoff is the time of day after which a check-in is late.
const DefaultLateCutoff = 9 * time.Hour

// DayInput holds every record known for one employee on one date.
type DayInput struct {
	Date        string
	IsToday     bool
	WorkLog     *model.WorkLogEntry
	Leave       *model.LeaveRecord
	Permissions []model.PermissionRecord
}

// Resolver decides the attendance status of single dates.
type Resolver struct {
	lateCutoff time.Duration
	loc        *time.Location
}

// NewResolver creates a Resolver. A zero cutoff means DefaultLateCutoff.
func NewResolver(lateCutoff time.Duration, loc *time.Location) *Resolver {
	if lateCutoff <= 0 {
		lateCutoff = DefaultLateCutoff
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{lateCutoff: lateCutoff, loc: loc}
}

// ParseLateCutoff reads an HH:MM[:SS] cutoff.
func ParseLateCutoff(s string) (time.Duration, error) {
	d, ok := ParseClock(s, time.UTC)
	if !ok {
		return 0, fmt.Errorf("invalid late cutoff %q", s)
	}
	return d, nil
}

// Resolve computes the DayRecord of one date. Precedence: check-in/out
// baseline, then approved leave, then approved permission, then lateness on
// a day that is still Present.
func (r *Resolver) Resolve(in DayInput) model.DayRecord {
	day := model.DayRecord{Date: in.Date, Status: model.DailyAbsent}

	checkIn, hasIn := r.clock(in.WorkLog, true)
	checkOut, hasOut := r.clock(in.WorkLog, false)

	if hasOut {
		day.CheckOut = FormatClock(checkOut)
	}
	// A check-out without a check-in stays Absent.
	if hasIn {
		day.CheckIn = FormatClock(checkIn)
		if hasOut || in.IsToday {
			day.Status = model.DailyPresent
		}
		day.Missed = !hasOut && !in.IsToday
	}

	switch {
	case in.Leave != nil && in.Leave.Status.Approved():
		day.Status = model.DailyLeave
	case hasApproved(in.Permissions):
		day.Status = model.DailyPermission
	}

	if hasIn && day.Status == model.DailyPresent && checkIn > r.lateCutoff {
		day.Status = model.DailyLate
	}

	if in.WorkLog != nil {
		day.RegularHours = nonNegative(in.WorkLog.RegularHours)
		day.OvertimeHours = nonNegative(in.WorkLog.OvertimeHours)
	}
	return day
}

func (r *Resolver) clock(entry *model.WorkLogEntry, in bool) (time.Duration, bool) {
	if entry == nil {
		return 0, false
	}
	if in {
		return ParseClock(entry.CheckIn, r.loc)
	}
	return ParseClock(entry.CheckOut, r.loc)
}

func hasApproved(perms []model.PermissionRecord) bool {
	for _, p := range perms {
		if p.Status.Approved() {
			return true
		}
	}
	return false
}
