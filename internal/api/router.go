package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"attendance.service/internal/api/handler"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service handler.AttendanceService) *mux.Router {
	h := handler.AttendanceHandler{
		Service: service,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/attendance/summaries", h.BatchSummaries).Methods(http.MethodPost)
	api.HandleFunc("/attendance/{employeeId}/summary", h.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/settings/{year:[0-9]+}/{month:[0-9]+}", h.GetSetting).Methods(http.MethodGet)
	api.HandleFunc("/settings/{year:[0-9]+}/{month:[0-9]+}", h.SaveSetting).Methods(http.MethodPut, http.MethodPost)
	api.HandleFunc("/reports", h.CreateReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/{jobId}", h.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
