package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fluxo/fluxo-backend/internal/amqp"
	"github.com/dafibh/fluxo/fluxo-backend/internal/cache"
	"github.com/dafibh/fluxo/fluxo-backend/internal/config"
	"github.com/dafibh/fluxo/fluxo-backend/internal/handler"
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/dafibh/fluxo/fluxo-backend/internal/repository/postgres"
	"github.com/dafibh/fluxo/fluxo-backend/internal/service"
	"github.com/dafibh/fluxo/fluxo-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

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

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)

	// WebSocket hub for live events
	hub := websocket.NewHub()

	// Initialize services
	reportCache := cache.New[any](cfg.ReportCacheSize, 0)
	balanceService := service.NewBalanceService(transactionRepo)
	reportService := service.NewReportService(transactionRepo, recurringRepo, goalRepo, balanceService, reportCache, cfg.ProjectionHorizonDays)

	transactionService := service.NewTransactionService(transactionRepo)
	transactionService.SetReportInvalidator(reportService)
	transactionService.SetEventPublisher(hub)

	recurringService := service.NewRecurringService(recurringRepo)
	recurringService.SetReportInvalidator(reportService)
	recurringService.SetEventPublisher(hub)

	goalService := service.NewGoalService(goalRepo)
	goalService.SetReportInvalidator(reportService)
	goalService.SetEventPublisher(hub)

	alertService := service.NewAlertService(reportService, cfg.Alerts.RunwayDays)
	alertService.SetEventPublisher(hub)

	// Broker publisher is optional
	if cfg.Alerts.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.Alerts.AMQPURL, cfg.Alerts.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		defer amqpClient.Close()
		alertService.SetAlertPublisher(amqpClient)
		log.Info().Str("exchange", cfg.Alerts.AMQPExchange).Msg("Runway alerts will be published to the broker")
	}

	alertWorker := service.NewAlertWorker(alertService, recurringRepo, log.Logger, service.AlertWorkerConfig{
		Interval: cfg.Alerts.CheckInterval,
	})
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	alertWorker.Start(workerCtx)

	// Initialize auth
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, middleware.DefaultBurstSize)
	defer rateLimiter.Stop()

	// Initialize handlers
	transactionHandler := handler.NewTransactionHandler(transactionService)
	reportHandler := handler.NewReportHandler(reportService)
	recurringHandler := handler.NewRecurringHandler(recurringService)
	goalHandler := handler.NewGoalHandler(goalService)
	healthHandler := handler.NewHealthHandler(pool)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Unauthenticated endpoints. /ws carries its token in the query string.
	e.GET("/health", healthHandler.Health)
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, transactionHandler, reportHandler, recurringHandler, goalHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	alertWorker.Stop()
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
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

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("user_id", middleware.GetUserID(c)).
				Msg("request")

			return nil
		}
	}
}
