package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"proprental-backend/internal/clock"
	"proprental-backend/internal/config"
	"proprental-backend/internal/jobs"
	"proprental-backend/internal/logger"
	"proprental-backend/internal/repository"
	"proprental-backend/internal/repository/memory"
	"proprental-backend/internal/repository/postgres"
	"proprental-backend/internal/scheduler"
	"proprental-backend/internal/service"
)

// The sweeper runs the agreement maintenance jobs outside the API server,
// either once or on the cron schedule.
func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('sweep-expired' or 'report-expiring')")
	flag.Parse()

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting agreement sweeper...", "log_level", cfg.Log.Level)

	// Initialize storage
	var (
		agreements repository.AgreementRepository
		rooms      repository.RoomRepository
		indivs     repository.IndividualContractorRepository
		legals     repository.LegalEntityContractorRepository
		cleanup    = func() {}
	)
	if cfg.Storage.Type == "postgres" {
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")
		store := postgres.NewStore(db)
		agreements = store.AgreementRepository
		rooms = store.RoomRepository
		indivs = store.IndividualContractorRepository
		legals = store.LegalEntityContractorRepository
		cleanup = func() { db.Close() }
	} else {
		store, err := memory.NewStore(cfg.Storage.DataDir)
		if err != nil {
			logger.Error("Failed to initialize storage", "error", err)
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		agreements = store.Agreements
		rooms = store.Rooms
		indivs = store.IndividualContractors
		legals = store.LegalEntityContractors
	}
	defer cleanup()

	// Initialize services and jobs
	var clk clock.Clock = clock.SystemClock{}
	if cfg.Clock.Mode == "virtual" {
		clk = clock.NewAdjustableClock(cfg.Clock.Start)
	}
	agreementSvc := service.NewAgreementService(agreements, rooms, indivs, legals, clk, nil)
	jobRunner := jobs.NewJobRunner(agreementSvc, cfg)

	// One-shot mode
	if *runOnce != "" {
		switch *runOnce {
		case "sweep-expired":
			jobRunner.SweepExpiredAgreements()
		case "report-expiring":
			jobRunner.ReportExpiringAgreements()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		return
	}

	// Scheduled mode
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Sweeper stopped")
}
