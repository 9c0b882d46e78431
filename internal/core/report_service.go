package core

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"attendance.service/internal/core/model"
)

// FormatMonthlyReport renders summaries as a plain-text table for email.
// Rows that failed keep their place and show the error instead of counters.
func FormatMonthlyReport(month, year int, summaries []model.MonthlySummary) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Attendance summary for %s %d\n\n", time.Month(month).String(), year)

	if len(summaries) == 0 {
		buf.WriteString("No employees found for this period.\n")
		return buf.String()
	}

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Employee\tName\tTotal\tWorking\tMissed\tLeave\tLate\tPermissions\tPerm. hours\tOT hours\tHours\tNotes")
	for _, s := range summaries {
		if s.Error != "" {
			fmt.Fprintf(w, "%s\t%s\t%d\t-\t-\t-\t-\t-\t-\t-\t-\t%s\n", s.EmployeeID, s.EmployeeName, s.TotalDays, s.Error)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
			s.EmployeeID, s.EmployeeName, s.TotalDays, s.WorkingDays, s.MissedDays, s.LeaveDays, s.LateDays,
			s.PermissionCount, s.PermissionHours, s.OvertimeHours, s.TotalHours, degradedNote(s.DegradedKinds))
	}
	_ = w.Flush()
	return buf.String()
}

// ReportSubject is the email subject of a monthly report.
func ReportSubject(month, year int) string {
	return fmt.Sprintf("Monthly Attendance Report - %s %d", time.Month(month).String(), year)
}

func degradedNote(kinds []model.RecordKind) string {
	if len(kinds) == 0 {
		return ""
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "incomplete: " + strings.Join(names, ",")
}
