// Command dispatch performs a single due-reminder run and prints the result
// as JSON. It is meant for an external scheduler such as a cron job.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
	"github.com/jonboulle/clockwork"

	"qurainbot/internal/application/dto"
	appService "qurainbot/internal/application/service"
	"qurainbot/internal/infrastructure/database"
	"qurainbot/internal/infrastructure/whatsapp"
	"qurainbot/internal/pkg/config"
	appLogger "qurainbot/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the JSON result only.
	appLog := appLogger.NewTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, appLog)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, log appLogger.Logger) int {
	if cfg.DBDriver == config.DriverSQLite {
		log.Warn("SQLite holds the write lock during sends; do not run this while cmd/api serves the same file")
	}
	db, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to open database", err)
		return 1
	}
	defer func() { _ = database.Close(db) }()

	sender, err := whatsapp.NewFromConfig(cfg, log.With("component", "whatsapp"))
	if err != nil {
		log.Error("Failed to initialize WhatsApp client", err)
		return 1
	}

	dispatcher := appService.NewDispatcherService(database.NewReminderRepository(db), sender, clockwork.NewRealClock(),
		cfg.Timezone, appService.DispatcherOptions{Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}, log)
	result := dispatcher.RunOnce(ctx)

	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.Error("Failed to write result", err)
		return 1
	}
	if result.Status != dto.DispatchStatusOK || len(result.Errors) > 0 {
		return 2
	}
	return 0
}
