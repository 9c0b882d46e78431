package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/pkg/telemetry"
)

// Setup configures the global zerolog logger for one service binary. Every
// line carries the service name so the API and workers can share a sink.
func Setup(service string, isLocalDev bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if isLocalDev {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("service", service).Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", service).Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// EnrichContextWithLogger attaches a logger carrying the trace of the active
// span plus the report job and employee found in ctx. The context is returned
// unchanged when there is nothing to attach.
func EnrichContextWithLogger(ctx context.Context) context.Context {
	lc := log.With()
	enriched := false

	span := trace.SpanFromContext(ctx)
	if sCtx := span.SpanContext(); span.IsRecording() && sCtx.HasTraceID() {
		lc = lc.Str("trace_id", sCtx.TraceID().String()).
			Str("span_id", sCtx.SpanID().String())
		enriched = true
	}
	if jobID := telemetry.GetJobIDFromContext(ctx); jobID != "" {
		lc = lc.Str("job_id", jobID)
		enriched = true
	}
	if employeeID := telemetry.GetEmployeeIDFromContext(ctx); employeeID != "" {
		lc = lc.Str("employee_id", employeeID)
		enriched = true
	}

	if !enriched {
		return ctx
	}
	l := lc.Logger()
	return l.WithContext(ctx)
}
