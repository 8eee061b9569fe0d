package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/app"
	"digisign/portal-backend/internal/audit"
	"digisign/portal-backend/internal/auth"
	"digisign/portal-backend/internal/config"
	"digisign/portal-backend/internal/db"
	"digisign/portal-backend/internal/documents"
	"digisign/portal-backend/internal/events"
	"digisign/portal-backend/internal/middleware"
	"digisign/portal-backend/internal/signing"
	"digisign/portal-backend/internal/verification"
	"digisign/portal-backend/pkg/pdf"
	"digisign/portal-backend/pkg/security"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a JSON config file")
	flag.Parse()

	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	gdb, err := db.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, gdb); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	blobs, err := app.OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	publisher := events.NewNopPublisher()
	if cfg.Events.SNSTopicARN != "" {
		region := cfg.Events.Region
		if region == "" {
			region = cfg.Storage.S3Region
		}
		snsPublisher, err := events.NewSNSPublisher(ctx, region, cfg.Events.SNSTopicARN)
		if err != nil {
			logger.Fatal("Failed to initialize event publisher", zap.Error(err))
		}
		publisher = snsPublisher
	}

	// Auth
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	authService := auth.NewService(auth.NewRepository(gdb), tokens, cfg.Security.AutoRegister, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Documents
	documentRepo := documents.NewRepository(gdb)
	documentStorage := documents.NewStorageProvider(blobs)
	documentService := documents.NewService(documentRepo, documentStorage, logger)
	documentHandler := documents.NewHandler(documentService, authService, cfg.Server.MaxUploadBytes(), logger)

	// Signing
	orchestrator := signing.NewOrchestrator(signing.Options{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Caption:       cfg.Signing.Caption,
		QRSize:        cfg.Signing.QRSize,
	}, pdf.NewStamper(), documentService, publisher, logger)
	signingHandler := signing.NewHandler(orchestrator, authService, cfg.Server.MaxUploadBytes(), logger)

	// Verification
	resolver := verification.NewResolver(documentService, logger)
	verificationHandler := verification.NewHandler(resolver, documentService, logger)

	// Blob audit
	auditor := audit.NewAuditor(documentRepo, documentStorage, cfg.Audit.PageSize, logger)
	if cfg.Audit.Enabled {
		if err := auditor.Start(ctx, cfg.Audit.Schedule); err != nil {
			logger.Fatal("Failed to start blob auditor", zap.Error(err))
		}
		defer auditor.Stop()
	}

	// Setup Router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.Logger(logger), middleware.CORS(cfg.Server.AllowedOrigins))
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	// Register Routes
	api := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api)
		documentHandler.RegisterRoutes(api)
		signingHandler.RegisterRoutes(api)
		verificationHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := gdb.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", srv.Addr),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("audit", cfg.Audit.Enabled),
	)

	// Graceful Shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	logger.Info("Server exiting")
}
