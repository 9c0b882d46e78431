package recordsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
)

const maxBodyBytes = 8 << 20

// StatusError is returned when the records API answers with a non-2xx status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("records api %s returned non-successful status code: %d", e.Path, e.Code)
}

// HTTPClient reads attendance records from the external persistence API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL. timeout is the hard cap of a
// single request; callers normally apply a shorter context deadline.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

var _ attendance.RecordSource = (*HTTPClient)(nil)

// WorkLog fetches the work-log entries of one employee and month.
func (c *HTTPClient) WorkLog(ctx context.Context, employeeID string, month, year int) ([]model.WorkLogEntry, error) {
	body, err := c.get(ctx, "/worklogs", monthQuery(employeeID, month, year))
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}

	entries := make([]model.WorkLogEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, model.WorkLogEntry{
			Date:          it.str("date", "work_date", "workDate"),
			CheckIn:       it.str("checkIn", "check_in"),
			CheckOut:      it.str("checkOut", "check_out"),
			RegularHours:  it.num("hours", "regularHours", "regular_hours"),
			OvertimeHours: it.num("otHours", "ot_hours", "overtimeHours"),
			Project:       it.str("project"),
			Description:   it.str("description"),
		})
	}
	return entries, nil
}

// Permissions fetches the permission requests of one employee and month.
func (c *HTTPClient) Permissions(ctx context.Context, employeeID string, month, year int) ([]model.PermissionRecord, error) {
	body, err := c.get(ctx, "/permissions", monthQuery(employeeID, month, year))
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}

	records := make([]model.PermissionRecord, 0, len(items))
	for _, it := range items {
		records = append(records, model.PermissionRecord{
			EmployeeID: employeeID,
			Date:       it.str("date", "permission_date"),
			StartTime:  it.str("start_time", "startTime"),
			EndTime:    it.str("end_time", "endTime"),
			Status:     model.ParseRecordStatus(it.str("status")),
		})
	}
	return records, nil
}

// Overtime fetches the overtime summary of one employee and month.
func (c *HTTPClient) Overtime(ctx context.Context, employeeID string, month, year int) (attendance.OvertimeSummary, error) {
	body, err := c.get(ctx, "/overtime/summary", monthQuery(employeeID, month, year))
	if err != nil {
		return attendance.OvertimeSummary{}, err
	}
	obj, err := decodeObject(body)
	if err != nil {
		return attendance.OvertimeSummary{}, err
	}

	summary := attendance.OvertimeSummary{TotalHours: obj.num("total_hours", "totalHours")}
	items, ok := obj.list("records")
	if !ok {
		return summary, nil
	}
	summary.HasRecords = true
	for _, it := range items {
		summary.Records = append(summary.Records, model.OvertimeRecord{
			EmployeeID: employeeID,
			Date:       it.str("ot_date", "date"),
			TotalHours: it.num("total_hours", "totalHours"),
			Status:     model.ParseRecordStatus(it.str("status")),
		})
	}
	if count := int(obj.num("records_count")); obj.has("records_count") && count != len(items) {
		log.Ctx(ctx).Debug().
			Int("records_count", count).
			Int("records", len(items)).
			Msg("Overtime record count mismatch")
	}
	return summary, nil
}

// DailyAttendance fetches the organization-wide attendance list of a date.
func (c *HTTPClient) DailyAttendance(ctx context.Context, date string) ([]model.DailyAttendance, error) {
	body, err := c.get(ctx, "/attendance/daily", url.Values{"date": {date}})
	if err != nil {
		return nil, err
	}
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}

	rows := make([]model.DailyAttendance, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.DailyAttendance{
			EmployeeID:       it.str("id", "employeeId", "employee_id"),
			Name:             it.str("name", "employeeName", "employee_name"),
			AttendanceStatus: it.str("attendanceStatus", "attendance_status", "status"),
			CheckInTime:      it.str("checkInTime", "check_in_time", "checkIn"),
			CheckOutTime:     it.str("checkOutTime", "check_out_time", "checkOut"),
		})
	}
	return rows, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create records api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call records api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read records api response: %w", err)
	}
	return body, nil
}

func monthQuery(employeeID string, month, year int) url.Values {
	return url.Values{
		"employeeId": {employeeID},
		"month":      {strconv.Itoa(month)},
		"year":       {strconv.Itoa(year)},
	}
}
