package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"campus-lostfound-api/internal/config"
	"campus-lostfound-api/internal/database"
	"campus-lostfound-api/internal/job"
	"campus-lostfound-api/internal/mailer"
	"campus-lostfound-api/internal/metrics"
	"campus-lostfound-api/internal/repository"
	"campus-lostfound-api/internal/router"
	"campus-lostfound-api/internal/service"
	"campus-lostfound-api/internal/session"
	"campus-lostfound-api/internal/storage"
	"campus-lostfound-api/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Lost and Found Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("email_domain", cfg.Auth.EmailDomain),
		zap.String("storage_driver", cfg.Storage.Driver),
	)

	// Initialize database
	db, err := database.New(database.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Initialize metrics
	m := metrics.New()
	database.RegisterMetricsCallbacks(db, m)

	collector := metrics.NewBusinessMetricsCollector(db, m, logger)
	collector.Start()
	defer collector.Stop()

	// Redis backs the session revocation list; the service degrades to
	// signature-and-expiry-only sessions without it
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, logout revocation disabled", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("Redis connected successfully")
		defer redisClient.Close()
	}

	// Initialize image storage
	var images storage.ImageStore
	if cfg.Storage.Driver == "s3" {
		images, err = storage.NewS3Store(&cfg.Storage.S3, cfg.Storage.AllowedExtensions)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		logger.Info("S3 storage initialized", zap.String("bucket", cfg.Storage.S3.Bucket))
	} else {
		images, err = storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.AllowedExtensions)
		if err != nil {
			logger.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		logger.Info("Local storage initialized", zap.String("dir", cfg.Storage.LocalDir))
	}

	// Initialize mailer
	var mail mailer.Mailer = mailer.Disabled{}
	if cfg.Mail.Enabled {
		mail = mailer.NewSMTPMailer(cfg.Mail)
		logger.Info("SMTP mailer initialized", zap.String("host", cfg.Mail.Host))
	} else {
		logger.Warn("Mail disabled, confirmation links will not be delivered")
	}

	tokens := token.NewIssuer(cfg.Auth.SecretKey, cfg.Auth.ConfirmTokenTTL.Std())
	sessions := session.NewManager(cfg.Auth.SecretKey, cfg.Auth.SessionTTL.Std(), redisClient)

	// Hourly purge of accounts whose confirmation window lapsed
	userRepo := repository.NewUserRepository(db)
	purgeJob := job.NewPurgeJob(userRepo, cfg.Auth.PurgeGrace.Std(), m, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddJob("@hourly", purgeJob); err != nil {
		logger.Fatal("Failed to schedule purge job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:       db,
		Logger:   logger,
		Metrics:  m,
		Sessions: sessions,
		Tokens:   tokens,
		Mailer:   mail,
		Images:   images,
		Auth: service.AuthConfig{
			EmailDomain:   cfg.Auth.EmailDomain,
			StudentIDOnly: cfg.Auth.StudentIDOnly,
			BaseURL:       cfg.Server.BaseURL,
		},
		SessionTTL: cfg.Auth.SessionTTL.Std(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}

	// Start server in goroutine
	go func() {
		logger.Info("Lost and Found Service started successfully",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
