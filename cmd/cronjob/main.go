package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront-library/internal/config"
	"storefront-library/internal/jobs"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
	"storefront-library/internal/scheduler"
	"storefront-library/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-lend-expiry-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting library cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize storage
	docs, err := repository.OpenDocumentStore(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "driver", cfg.Storage.Driver)
		log.Fatalf("Failed to open storage: %v", err)
	}
	store := repository.NewStore(docs, cfg.Storage.WriteRetries)
	defer store.Close()

	// Initialize Services
	mailer, err := service.NewMailer(cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	emailService := service.NewEmailService(mailer)
	libraryService := service.NewLibraryService(store.Owned, store.Favorites, nil)
	lendingService := service.NewLendingService(
		store.Lent,
		libraryService,
		emailService,
		service.LendingLimits{
			MaxDurationDays: cfg.Lending.MaxDurationDays,
			MaxTotalDays:    cfg.Lending.MaxTotalDays,
		},
		nil,
	)

	jobServices := &jobs.Services{
		Email:   emailService,
		Lending: lendingService,
		Library: libraryService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			store.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once; it reports false for unknown names.
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "send-lend-expiry-reminders":
		jobRunner.SendLendExpiryReminders()
	case "report-expired-lends":
		jobRunner.ReportExpiredLends()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-lend-expiry-reminders\n")
		fmt.Printf("  - report-expired-lends\n")
		fmt.Printf("  - all\n")
		return false
	}
	return true
}
