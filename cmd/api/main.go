package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	appService "qurainbot/internal/application/service"
	"qurainbot/internal/domain/repository"
	"qurainbot/internal/infrastructure/database"
	"qurainbot/internal/infrastructure/memory"
	"qurainbot/internal/infrastructure/scheduler"
	"qurainbot/internal/infrastructure/whatsapp"
	"qurainbot/internal/interfaces/api/handler"
	"qurainbot/internal/interfaces/api/router"
	"qurainbot/internal/pkg/config"
	appLogger "qurainbot/internal/pkg/logger"
)

func gracefulShutdown(ctx context.Context, apiServer *http.Server, schedulerService appService.SchedulerService, db *gorm.DB, log appLogger.Logger, done chan<- struct{}) {
	<-ctx.Done()
	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	// HTTP first, then cron jobs, then the database.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	log.Info("Stopping scheduler...")
	schedulerService.Stop()

	if err := database.Close(db); err != nil {
		log.Error("Error closing database", err)
	} else {
		log.Info("Database connection closed.")
	}
	close(done)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	appLog := appLogger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	db, err := database.Open(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("Failed to open database", err)
		os.Exit(1)
	}
	reminderRepo := database.NewReminderRepository(db)

	var sessionRepo repository.SessionRepository
	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		sessionRepo = memory.NewSessionRepository()
		appLog.Warn("Using in-memory sessions; dialogs are lost on restart")
	default:
		sessionRepo = database.NewSessionRepository(db)
	}

	sender, err := whatsapp.NewFromConfig(cfg, appLog.With("component", "whatsapp"))
	if err != nil {
		appLog.Error("Failed to initialize WhatsApp client", err)
		os.Exit(1)
	}
	clock := clockwork.NewRealClock()

	// --- Application Services ---
	sessionSvc := appService.NewSessionService(sessionRepo, clock, cfg.SessionTTL, appLog)
	reminderSvc := appService.NewReminderService(reminderRepo, database.NewStatsRepository(db), clock, appLog)
	directorySvc := appService.NewDirectoryService(database.NewCategoryRepository(db), clock, cfg.Timezone, appLog)
	conversationSvc := appService.NewConversationService(sessionSvc, reminderSvc, directorySvc, clock, cfg.Timezone, appLog)
	dispatcherSvc := appService.NewDispatcherService(reminderRepo, sender, clock, cfg.Timezone,
		appService.DispatcherOptions{Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff},
		appLog.With("component", "dispatcher"))
	schedulerSvc := appService.NewSchedulerService(scheduler.New(appLog), dispatcherSvc, sessionSvc,
		appService.SchedulerSpecs{Dispatch: cfg.DispatchCron, SessionPurge: cfg.SessionPurgeCron}, appLog)
	appLog.Info("Application services initialized.")

	if err := schedulerSvc.Start(ctx); err != nil {
		appLog.Error("Failed to start scheduler", err)
		os.Exit(1)
	}

	// --- Router ---
	echoRouter := router.NewRouter(&router.Config{
		WebhookHandler:  handler.NewWebhookHandler(conversationSvc, sender, appLog),
		DispatchHandler: handler.NewDispatchHandler(dispatcherSvc, appLog),
		Logger:          appLog,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	done := make(chan struct{})
	go gracefulShutdown(ctx, apiServer, schedulerSvc, db, appLog, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Port))
	if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		stop()
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
