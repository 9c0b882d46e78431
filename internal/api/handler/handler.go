package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"attendance.service/internal/core/attendance"
	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

// AttendanceService is what the HTTP layer needs from the application core.
type AttendanceService interface {
	MonthlySummary(ctx context.Context, employeeID string, month, year int) (*model.MonthlySummary, error)
	BatchSummaries(ctx context.Context, employeeIDs []string, month, year int) ([]model.MonthlySummary, error)
	GetSetting(ctx context.Context, month, year int) (model.MonthlySetting, error)
	SaveSetting(ctx context.Context, month, year, totalDays int) (model.MonthlySetting, error)
	RequestReport(ctx context.Context, employeeIDs []string, month, year int, recipient string) (*model.ReportJob, error)
	GetReport(ctx context.Context, jobID string) (*model.ReportJob, error)
}

type AttendanceHandler struct {
	Service AttendanceService
}

type BatchSummaryRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
}

type BatchSummaryResponse struct {
	Summaries []model.MonthlySummary `json:"summaries"`
}

type SettingRequest struct {
	TotalDays int `json:"totalDays"`
}

type ReportRequest struct {
	EmployeeIDs []string `json:"employeeIds"`
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	Recipient   string   `json:"recipient"`
}

// GetSummary serves GET /attendance/{employeeId}/summary?month=&year=.
func (h *AttendanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]

	month, year, ok := monthYearQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "month and year query parameters must be integers")
		return
	}

	summary, err := h.Service.MonthlySummary(r.Context(), employeeID, month, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// BatchSummaries serves POST /attendance/summaries.
func (h *AttendanceHandler) BatchSummaries(w http.ResponseWriter, r *http.Request) {
	var req BatchSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rows, err := h.Service.BatchSummaries(r.Context(), req.EmployeeIDs, req.Month, req.Year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []model.MonthlySummary{}
	}
	writeJSON(w, http.StatusOK, BatchSummaryResponse{Summaries: rows})
}

// GetSetting serves GET /settings/{year}/{month}.
func (h *AttendanceHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "month and year must be integers")
		return
	}

	setting, err := h.Service.GetSetting(r.Context(), month, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// SaveSetting serves PUT and POST /settings/{year}/{month}.
func (h *AttendanceHandler) SaveSetting(w http.ResponseWriter, r *http.Request) {
	month, year, ok := monthYearPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "month and year must be integers")
		return
	}

	var req SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	setting, err := h.Service.SaveSetting(r.Context(), month, year, req.TotalDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// CreateReport serves POST /reports.
func (h *AttendanceHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.Service.RequestReport(r.Context(), req.EmployeeIDs, req.Month, req.Year, req.Recipient)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"jobId":   job.ID,
		"message": "Report job accepted for asynchronous processing.",
	})
}

// GetReport serves GET /reports/{jobId}.
func (h *AttendanceHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	job, err := h.Service.GetReport(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *AttendanceHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, attendance.ErrWorkLogUnavailable), errors.Is(err, attendance.ErrRosterUnavailable):
		writeError(w, http.StatusBadGateway, unwrapSentinel(err))
	default:
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Service error processing request")
	}
}

func unwrapSentinel(err error) string {
	if errors.Is(err, attendance.ErrWorkLogUnavailable) {
		return attendance.ErrWorkLogUnavailable.Error()
	}
	return attendance.ErrRosterUnavailable.Error()
}

func monthYearQuery(r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	return parseMonthYear(q.Get("month"), q.Get("year"))
}

func monthYearPath(r *http.Request) (int, int, bool) {
	vars := mux.Vars(r)
	return parseMonthYear(vars["month"], vars["year"])
}

func parseMonthYear(monthText, yearText string) (int, int, bool) {
	month, err := strconv.Atoi(monthText)
	if err != nil {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
