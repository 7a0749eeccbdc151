package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plan2509/tms-final/internal/api"
	"github.com/plan2509/tms-final/internal/app"
	"github.com/plan2509/tms-final/internal/infra/config"
	idb "github.com/plan2509/tms-final/internal/infra/database"
	"github.com/plan2509/tms-final/internal/infra/logger"
	"github.com/plan2509/tms-final/internal/infra/scheduler"
	iteams "github.com/plan2509/tms-final/internal/infra/teams"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("FATAL: Could not load application configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, ListenAddr: %s", cfg.LogLevel, cfg.Environment, cfg.ListenAddr)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	if err := idb.InitSchema(db); err != nil {
		log.Fatalf("FATAL: Could not initialize database schema: %v", err)
	}

	// Initialize Repositories
	scheduleRepo := idb.NewPostgresScheduleRepository(db)
	taxRepo := idb.NewPostgresTaxRepository(db)
	stationRepo := idb.NewPostgresStationRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	channelRepo := idb.NewPostgresChannelRepository(db)
	log.Info("Repositories initialized.")

	// Initialize Teams webhook client
	teamsClient := iteams.NewClient(time.Duration(cfg.WebhookTimeoutSeconds) * time.Second)

	// Initialize DispatchService
	dispatchService := app.NewDispatchServiceImpl(
		scheduleRepo,
		taxRepo,
		stationRepo,
		notificationRepo,
		channelRepo,
		teamsClient,
		log,
		cfg.TMSBaseURL,
	)
	log.Info("Dispatch service initialized.")

	// Initialize internal cron trigger (optional)
	var dispatchScheduler *scheduler.DispatchScheduler
	if cfg.SchedulerEnabled {
		dispatchScheduler = scheduler.NewDispatchScheduler(dispatchService, log, cfg.CronSpecDispatch)
		if err := dispatchScheduler.Start(); err != nil {
			log.Fatalf("FATAL: Could not start dispatch scheduler: %v", err)
		}
	} else {
		log.Info("Internal dispatch scheduler disabled; external trigger only.")
	}

	// Initialize HTTP server
	server := api.NewServer(dispatchService, cfg, log)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	if dispatchScheduler != nil {
		dispatchScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
