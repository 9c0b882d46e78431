package model

import (
	"strings"
	"time"
)

// DefaultTotalDays is used when no monthly setting exists for a month.
const DefaultTotalDays = 28

// DateLayout is the ISO calendar date format used as bucket key.
const DateLayout = "2006-01-02"

// RecordStatus is the approval state of a leave, permission or overtime record.
type RecordStatus string

const (
	StatusApproved RecordStatus = "Approved"
	StatusPending  RecordStatus = "Pending"
	StatusRejected RecordStatus = "Rejected"
)

// ParseRecordStatus normalizes upstream status text. Unknown values map to
// an empty status, which is never approved.
func ParseRecordStatus(s string) RecordStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return StatusApproved
	case "pending":
		return StatusPending
	case "rejected":
		return StatusRejected
	}
	return ""
}

func (s RecordStatus) Approved() bool { return s == StatusApproved }

// DailyStatus is the attendance status resolved for one employee on one date.
type DailyStatus string

const (
	DailyPresent    DailyStatus = "Present"
	DailyLate       DailyStatus = "Late"
	DailyLeave      DailyStatus = "Leave"
	DailyPermission DailyStatus = "Permission"
	DailyAbsent     DailyStatus = "Absent"
)

// RecordKind names one of the raw inputs of an aggregation.
type RecordKind string

const (
	KindWorkLog    RecordKind = "worklog"
	KindLeave      RecordKind = "leave"
	KindPermission RecordKind = "permission"
	KindOvertime   RecordKind = "overtime"
	KindSettings   RecordKind = "settings"
)

// WorkLogEntry is one raw attendance record. CheckIn and CheckOut keep the
// upstream text; an empty or sentinel value means "none".
type WorkLogEntry struct {
	Date          string  `json:"date"`
	CheckIn       string  `json:"checkIn"`
	CheckOut      string  `json:"checkOut"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	Project       string  `json:"project,omitempty"`
	Description   string  `json:"description,omitempty"`
}

type LeaveRecord struct {
	EmployeeID string       `json:"employeeId"`
	Date       string       `json:"date"`
	Status     RecordStatus `json:"status"`
}

type PermissionRecord struct {
	EmployeeID string       `json:"employeeId"`
	Date       string       `json:"date"`
	StartTime  string       `json:"startTime"`
	EndTime    string       `json:"endTime"`
	Status     RecordStatus `json:"status"`
}

type OvertimeRecord struct {
	EmployeeID string       `json:"employeeId"`
	Date       string       `json:"date"`
	TotalHours float64      `json:"totalHours"`
	Status     RecordStatus `json:"status"`
}

// DailyAttendance is one employee row of the organization-wide snapshot for a date.
type DailyAttendance struct {
	EmployeeID       string `json:"id"`
	Name             string `json:"name,omitempty"`
	AttendanceStatus string `json:"attendanceStatus"`
	CheckInTime      string `json:"checkInTime"`
	CheckOutTime     string `json:"checkOutTime"`
}

// MonthlySetting is the number of working days expected in a month.
type MonthlySetting struct {
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	TotalDays int       `json:"totalDays"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DayRecord is the resolved view of one date.
type DayRecord struct {
	Date          string      `json:"date"`
	Status        DailyStatus `json:"status"`
	CheckIn       string      `json:"checkIn,omitempty"`
	CheckOut      string      `json:"checkOut,omitempty"`
	Missed        bool        `json:"missed"`
	RegularHours  float64     `json:"regularHours"`
	OvertimeHours float64     `json:"overtimeHours"`
}

// MonthlySummary is derived on every request and never persisted.
type MonthlySummary struct {
	EmployeeID      string       `json:"employeeId"`
	EmployeeName    string       `json:"employeeName,omitempty"`
	Month           int          `json:"month"`
	Year            int          `json:"year"`
	TotalDays       int          `json:"totalDays"`
	WorkingDays     int          `json:"workingDays"`
	MissedDays      int          `json:"missedDays"`
	LeaveDays       int          `json:"leaveDays"`
	LateDays        int          `json:"lateDays"`
	PermissionCount int          `json:"permissionCount"`
	PermissionHours float64      `json:"permissionHours"`
	OvertimeHours   float64      `json:"overtimeHours"`
	TotalHours      float64      `json:"totalHours"`
	DegradedKinds   []RecordKind `json:"degradedKinds,omitempty"`
	Error           string       `json:"error,omitempty"`
	Days            []DayRecord  `json:"days,omitempty"`
}

// ReportJobStatus defines the state of an asynchronous report job.
type ReportJobStatus string

const (
	ReportPending    ReportJobStatus = "PENDING"
	ReportProcessing ReportJobStatus = "PROCESSING"
	ReportCompleted  ReportJobStatus = "COMPLETED"
	ReportFailed     ReportJobStatus = "FAILED"
)

// EmailStatus defines the state of report email delivery.
type EmailStatus string

const (
	StatusEmailPending   EmailStatus = "PENDING"
	StatusEmailCompleted EmailStatus = "COMPLETED"
	StatusEmailFailed    EmailStatus = "FAILED"
)

type ReportJob struct {
	ID              string          `json:"id"`
	EmployeeIDs     []string        `json:"employeeIds"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Recipient       string          `json:"recipient"`
	Status          ReportJobStatus `json:"status"`
	RetryCount      int             `json:"retryCount"`
	EmailStatus     EmailStatus     `json:"emailStatus"`
	EmailRetryCount int             `json:"emailRetryCount"`
	SummaryText     string          `json:"summaryText,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
