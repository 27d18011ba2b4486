package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumora-health/lumora-backend/internal/alerts"
	"github.com/lumora-health/lumora-backend/internal/api"
	"github.com/lumora-health/lumora-backend/internal/cache"
	"github.com/lumora-health/lumora-backend/internal/chatbot"
	"github.com/lumora-health/lumora-backend/internal/config"
	"github.com/lumora-health/lumora-backend/internal/database"
	"github.com/lumora-health/lumora-backend/internal/email"
	"github.com/lumora-health/lumora-backend/internal/ml"
	"github.com/lumora-health/lumora-backend/internal/monitoring"
	"github.com/lumora-health/lumora-backend/internal/ratelimit"
	"github.com/lumora-health/lumora-backend/internal/security"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	userService := database.NewUserService(repo, cfg.JWTSecret, cfg.TokenExpiry)

	// Model artifacts are mandatory: refuse to serve scoring without them
	modelService := ml.NewModelService(cfg.ModelPath, cfg.EncodersPath)
	if err := modelService.Load(); err != nil {
		slog.Error("Failed to load model artifacts", "error", err)
		os.Exit(1)
	}
	scorer := ml.NewScorer(modelService)

	var mailer alerts.Mailer
	emailCfg := email.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		User:      cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		FromName:  cfg.SMTPFromName,
	}
	if emailCfg.Configured() {
		mailer = email.NewMailer(emailCfg)
		slog.Info("SMTP mailer configured", "host", cfg.SMTPHost)
	} else {
		slog.Warn("SMTP not configured, alert emails disabled")
	}

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	alertPolicy := alerts.NewPolicy(cfg.HighRiskThreshold)
	alertService := alerts.NewService(repo, alertPolicy, mailer, cfg.AlertEmailEnabled && mailer != nil, appLogger, appMetrics)

	bot := chatbot.NewBot()

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)

	responseCache := cache.NewCache(5 * time.Minute)

	secConfig := security.DefaultSecurityConfig()
	secConfig.AllowedOrigins = cfg.CORSOrigins
	secConfig.TrustedProxies = cfg.TrustedProxies
	secConfig.RequestTimeout = cfg.RequestTimeout
	secMiddleware := security.NewSecurityMiddleware(secConfig)

	handlers := api.NewHandlers(
		cfg, db, repo, userService,
		modelService, scorer, alertService, bot,
		responseCache, limiter, appLogger, appMetrics,
	)

	router := api.NewRouter(handlers, limiter, secMiddleware)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "app", cfg.AppName, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		slog.Warn("Failed to close Redis client", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
