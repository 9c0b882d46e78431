package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Serves deterministic fake records for employees emp-1..emp-N.
// MOCK_EMPLOYEES sets N, MOCK_FAIL_RATE (0..1) makes a share of requests
// return 503 and MOCK_LATENCY adds a fixed delay to every response.

var (
	employees = cast.ToInt(envOr("MOCK_EMPLOYEES", "25"))
	failRate  = cast.ToFloat64(envOr("MOCK_FAIL_RATE", "0"))
	latency   = cast.ToDuration(envOr("MOCK_LATENCY", "0s"))
	names     = []string{"Ana", "Mihai", "Elena", "Radu", "Ioana", "Vlad", "Maria", "Andrei"}
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// seed makes every employee/date pair produce the same data on every call.
func seed(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func monthDates(month, year int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var dates []time.Time
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

func monthParams(r *http.Request) (string, int, int, bool) {
	q := r.URL.Query()
	month, err1 := strconv.Atoi(q.Get("month"))
	year, err2 := strconv.Atoi(q.Get("year"))
	id := q.Get("employeeId")
	return id, month, year, err1 == nil && err2 == nil && id != ""
}

func worklogsHandler(w http.ResponseWriter, r *http.Request) {
	id, month, year, ok := monthParams(r)
	if !ok {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	entries := []map[string]any{}
	for _, d := range monthDates(month, year) {
		rng := seed(id, d.Format("2006-01-02"), "worklog")
		if rng.Float64() < 0.1 {
			continue
		}
		in := 8*60 + rng.Intn(90)
		entry := map[string]any{
			"date":        d.Format("2006-01-02"),
			"checkIn":     fmt.Sprintf("%02d:%02d:00", in/60, in%60),
			"hours":       8,
			"otHours":     rng.Intn(3),
			"project":     "ATT-" + strconv.Itoa(1+rng.Intn(4)),
			"status":      "Approved",
			"description": "Regular shift",
		}
		if rng.Float64() > 0.05 {
			out := in + 8*60 + rng.Intn(60)
			entry["checkOut"] = fmt.Sprintf("%02d:%02d:00", out/60, out%60)
		}
		entries = append(entries, entry)
	}
	writeJSON(w, map[string]any{"data": entries})
}

func permissionsHandler(w http.ResponseWriter, r *http.Request) {
	id, month, year, ok := monthParams(r)
	if !ok {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	records := []map[string]any{}
	for _, d := range monthDates(month, year) {
		rng := seed(id, d.Format("2006-01-02"), "permission")
		if rng.Float64() > 0.08 {
			continue
		}
		status := "Approved"
		if rng.Float64() < 0.3 {
			status = "Pending"
		}
		records = append(records, map[string]any{
			"date":       d.Format("2006-01-02"),
			"start_time": "14:00",
			"end_time":   "16:00",
			"status":     status,
		})
	}
	writeJSON(w, records)
}

func overtimeHandler(w http.ResponseWriter, r *http.Request) {
	id, month, year, ok := monthParams(r)
	if !ok {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	total := 0.0
	records := []map[string]any{}
	for _, d := range monthDates(month, year) {
		rng := seed(id, d.Format("2006-01-02"), "overtime")
		if rng.Float64() > 0.15 {
			continue
		}
		hours := float64(1+rng.Intn(4)) / 2
		total += hours
		records = append(records, map[string]any{
			"ot_date":     d.Format("2006-01-02"),
			"total_hours": strconv.FormatFloat(hours, 'f', 2, 64),
			"status":      "Approved",
		})
	}
	writeJSON(w, map[string]any{
		"total_hours":   total,
		"records_count": len(records),
		"records":       records,
	})
}

func dailyHandler(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	rows := make([]map[string]any, 0, employees)
	for i := 1; i <= employees; i++ {
		id := "emp-" + strconv.Itoa(i)
		status := "Present"
		if seed(id, date, "leave").Float64() < 0.05 {
			status = "Leave"
		}
		rows = append(rows, map[string]any{
			"id":               id,
			"name":             names[i%len(names)] + " " + strconv.Itoa(i),
			"attendanceStatus": status,
			"checkInTime":      date + "T08:45:00Z",
			"checkOutTime":     date + "T17:00:00Z",
		})
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// chaos delays and fails requests according to MOCK_LATENCY and MOCK_FAIL_RATE.
func chaos(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if latency > 0 {
			time.Sleep(latency)
		}
		if failRate > 0 && rand.Float64() < failRate {
			log.Warn().Str("path", r.URL.Path).Msg("Injected failure")
			http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
			return
		}
		log.Debug().Str("path", r.URL.Path).Str("query", r.URL.RawQuery).Msg("Request")
		next.ServeHTTP(w, r)
	})
}

func main() {
	r := mux.NewRouter()
	r.Use(chaos)
	r.HandleFunc("/worklogs", worklogsHandler).Methods(http.MethodGet)
	r.HandleFunc("/permissions", permissionsHandler).Methods(http.MethodGet)
	r.HandleFunc("/overtime/summary", overtimeHandler).Methods(http.MethodGet)
	r.HandleFunc("/attendance/daily", dailyHandler).Methods(http.MethodGet)

	log.Info().Int("employees", employees).Float64("fail_rate", failRate).Msg("Records API mock server starting on port 8081...")
	if err := http.ListenAndServe(":8081", r); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
