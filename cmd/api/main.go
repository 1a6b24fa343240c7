package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ai"
	"github.com/dafibh/fintrack/fintrack-backend/internal/config"
	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/handler"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/middleware"
	"github.com/dafibh/fintrack/fintrack-backend/internal/notify"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/postgres"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/sqlite"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/storage"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/dafibh/fintrack/fintrack-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Fintrack API
// @version 1.0
// @description Personal finance ledger with budgets, goals, debts and AI insights.
// @BasePath /api
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the ledger store
	kv, closeKV := openKVStore(ctx, cfg)
	defer closeKV()

	hub := websocket.NewHub()
	store := ledger.NewStore(ctx, kv,
		ledger.WithLogger(log.Logger),
		ledger.WithListener(websocket.NewChangeListener(hub)),
	)

	// Alert delivery
	var emailNotifier, feedNotifier notify.Notifier
	if cfg.SMTP.Host != "" {
		emailNotifier = notify.NewEmailNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log.Logger)
		log.Info().Str("host", cfg.SMTP.Host).Msg("Email alerts enabled")
	}
	if cfg.AMQPURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("Alert feed unavailable, continuing without it")
		} else {
			defer publisher.Close()
			feedNotifier = publisher
		}
	}
	notifications := service.NewNotificationService(store, emailNotifier, feedNotifier, log.Logger)
	store.AddListener(notifications)
	notifications.Start(ctx)
	defer notifications.Stop()

	reminders := service.NewReminderWorker(store, cfg.ReminderSchedule, log.Logger)
	if err := reminders.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start reminder worker")
	}
	defer reminders.Stop()

	// AI
	completer := ai.NewCompleter(ai.CompleterConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	adapter := ai.NewAdapter(completer, cfg.OpenAI.Timeout, log.Logger)
	if !adapter.Configured() {
		log.Warn().Msg("OPENAI_API_KEY not set, AI endpoints will return fallback results")
	}
	insights := service.NewInsightService(store, adapter, log.Logger)

	// Hosted key/value store
	hostedKV := kv
	if cfg.S3.Bucket != "" {
		s3Repo, err := storage.NewS3KVRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize hosted store")
		}
		hostedKV = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Hosted store backed by S3")
	}
	hosted := service.NewHostedKVService(hostedKV, cfg.HostedKVPrefix, log.Logger)

	aiLimiter := middleware.NewRateLimiterWithConfig(cfg.AIRateLimit, middleware.DefaultBurstSize)
	defer aiLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, handler.Handlers{
		Health:       handler.NewHealthHandler(store, hub, adapter.Configured()),
		Transactions: handler.NewTransactionHandler(store),
		Budgets:      handler.NewBudgetHandler(store),
		Goals:        handler.NewGoalHandler(store),
		Debts:        handler.NewDebtHandler(store),
		Advisory:     handler.NewAdvisoryHandler(store),
		Scenarios:    handler.NewScenarioHandler(store),
		Months:       handler.NewMonthHandler(store),
		Profile:      handler.NewProfileHandler(store),
		AI:           handler.NewAIHandler(insights),
		HostedKV:     handler.NewHostedKVHandler(hosted, store),
		WebSocket:    handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
		Docs:         handler.NewDocsHandler(cfg.Port, cfg.PublicURL),
	}, aiLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openKVStore opens the ledger backend selected by STORAGE_DRIVER
func openKVStore(ctx context.Context, cfg *config.Config) (domain.KVStore, func()) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		if err := postgres.RunMigrations(pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Connected to database")
		return postgres.NewKVRepository(pool), pool.Close

	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return memory.NewKVStore(), func() {}

	default:
		store, err := sqlite.NewKVStore(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SQLitePath).Msg("Failed to open SQLite store")
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite store")
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close SQLite store")
			}
		}
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
