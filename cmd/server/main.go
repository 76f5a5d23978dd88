package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "proprental-backend/internal/api/http"
	"proprental-backend/internal/clock"
	"proprental-backend/internal/config"
	"proprental-backend/internal/jobs"
	"proprental-backend/internal/logger"
	"proprental-backend/internal/notify"
	"proprental-backend/internal/repository"
	"proprental-backend/internal/repository/memory"
	"proprental-backend/internal/repository/postgres"
	"proprental-backend/internal/scheduler"
	"proprental-backend/internal/service"
)

type stores struct {
	agreements             repository.AgreementRepository
	rooms                  repository.RoomRepository
	buildings              repository.BuildingRepository
	individualContractors  repository.IndividualContractorRepository
	legalEntityContractors repository.LegalEntityContractorRepository
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting property rental backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Storage configuration", "type", cfg.Storage.Type)

	// Initialize storage
	st, cleanup, err := buildStores(cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	// Initialize clock
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var clk clock.Clock
	var adjustable *clock.AdjustableClock
	if cfg.Clock.Mode == "virtual" {
		adjustable = clock.NewAdjustableClock(cfg.Clock.Start)
		clk = adjustable
		logger.Info("Using virtual clock", "start", cfg.Clock.Start)
		if cfg.Clock.AutoAdvanceInterval > 0 {
			go adjustable.AutoAdvance(ctx, cfg.Clock.AutoAdvanceInterval, cfg.Clock.AutoAdvanceStep)
		}
	} else {
		clk = clock.SystemClock{}
	}

	// Initialize notifications with a logging subscriber
	notifier := notify.NewNotifier()
	notifier.Subscribe(func(e notify.Event) {
		logger.Info("Domain event", "event_id", e.ID, "entity", e.Entity, "action", e.Action, "entity_id", e.EntityID)
	})

	// Initialize services
	agreementSvc := service.NewAgreementService(st.agreements, st.rooms, st.individualContractors, st.legalEntityContractors, clk, notifier)
	contractorSvc := service.NewContractorService(st.individualContractors, st.legalEntityContractors, st.agreements, clk)
	buildingSvc := service.NewBuildingService(st.buildings, st.rooms)

	// Initialize jobs and scheduler
	jobRunner := jobs.NewJobRunner(agreementSvc, cfg)
	if adjustable != nil {
		defer jobRunner.WatchClock(adjustable)()
	}
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(agreementSvc, contractorSvc, buildingSvc)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down HTTP server", "error", err)
	}
	logger.Info("Server stopped")
}

// buildStores wires the configured persistence backend
func buildStores(cfg *config.Config) (*stores, func(), error) {
	if cfg.Storage.Type == "postgres" {
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)
		store := postgres.NewStore(db)
		return &stores{
			agreements:             store.AgreementRepository,
			rooms:                  store.RoomRepository,
			buildings:              store.BuildingRepository,
			individualContractors:  store.IndividualContractorRepository,
			legalEntityContractors: store.LegalEntityContractorRepository,
		}, func() { db.Close() }, nil
	}

	store, err := memory.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.DataDir != "" {
		logger.Info("Using file-backed memory storage", "data_dir", cfg.Storage.DataDir)
	} else {
		logger.Info("Using in-memory storage")
	}
	return &stores{
		agreements:             store.Agreements,
		rooms:                  store.Rooms,
		buildings:              store.Buildings,
		individualContractors:  store.IndividualContractors,
		legalEntityContractors: store.LegalEntityContractors,
	}, func() {}, nil
}
