package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/app"
	"digisign/portal-backend/internal/audit"
	"digisign/portal-backend/internal/config"
	"digisign/portal-backend/internal/db"
	"digisign/portal-backend/internal/documents"
)

// Runs the blob audit outside the API process. With -once it performs a
// single pass and prints the report as JSON.
func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a JSON config file")
	once := flag.Bool("once", false, "run a single audit pass and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	gdb, err := db.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database")

	blobs, err := app.OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	auditor := audit.NewAuditor(
		documents.NewRepository(gdb),
		documents.NewStorageProvider(blobs),
		cfg.Audit.PageSize,
		logger,
	)

	if *once {
		report, err := auditor.Run(ctx)
		if err != nil {
			logger.Fatal("Audit failed", zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		if len(report.Missing) > 0 {
			os.Exit(2)
		}
		return
	}

	if err := auditor.Start(ctx, cfg.Audit.Schedule); err != nil {
		logger.Fatal("Failed to start auditor", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	auditor.Stop()
	logger.Info("Audit worker stopped")
}
