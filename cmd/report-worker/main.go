package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"attendance.service/internal/adapters/recordsapi"
	sqsadapter "attendance.service/internal/adapters/sqs"
	"attendance.service/internal/config"
	"attendance.service/internal/core/attendance"
	"attendance.service/internal/ports/repository"
	"attendance.service/internal/worker"
	"attendance.service/internal/worker/report"
	"attendance.service/pkg/aws"
	"attendance.service/pkg/database"
	"attendance.service/pkg/logger"
	"attendance.service/pkg/telemetry"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup("attendance-report-worker", cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("attendance-report-worker", cfg.OTELEndpoint, cfg.IsLocalDev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	lateCutoff, err := attendance.ParseLateCutoff(cfg.LateCutoff)
	if err != nil {
		log.Fatal().Err(err).Str("late_cutoff", cfg.LateCutoff).Msg("Invalid late cutoff")
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	reportRepo := repository.NewReportJobRepository(db)
	settingsRepo := repository.NewMonthlySettingRepository(db)
	producer := sqsadapter.NewSQSProducer(sqsClient, cfg.ReportSQSQueueURL, cfg.EmailSQSQueueURL)

	source := recordsapi.NewBreakerSource(recordsapi.NewHTTPClient(cfg.RecordsAPIURL, cfg.FetchTimeout))
	engine := attendance.NewEngine(source, settingsRepo, attendance.Options{
		FetchTimeout:     cfg.FetchTimeout,
		FetchConcurrency: cfg.FetchConcurrency,
		BatchConcurrency: cfg.BatchConcurrency,
		LateCutoff:       lateCutoff,
		Location:         cfg.Location(),
	})
	processor := report.NewProcessor(reportRepo, engine, producer)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.ReportSQSQueueURL, processor)
	// Each report already fans out over BatchConcurrency employees.
	app.Concurrency = 2

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling.
	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
