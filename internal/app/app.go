package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/forecast"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	customMiddleware "github.com/agam25rpro/Personal-Finance-Webapp/internal/middleware"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/pipeline"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/services"
	handlers "github.com/agam25rpro/Personal-Finance-Webapp/internal/transport/http"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	Metrics         *infrastructure.PipelineMetrics
	Orchestrator    *pipeline.Orchestrator
	ForecastService *services.ForecastService
	HealthService   *services.HealthService
	ErrorHandler    *apperrors.ErrorHandler
}

// NewApplication wires every component from cfg.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", cfg.Address()))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.NewPipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline stages and the services on top of them.
func (a *Application) initializeServices() error {
	orchestrator, err := pipeline.NewFromConfig(a.Config, a.Logger,
		pipeline.WithTracer(a.OTelProviders.Tracer),
		pipeline.WithMetrics(a.Metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	a.Orchestrator = orchestrator

	a.ForecastService = services.NewForecastService(
		a.Orchestrator,
		exporter.New(a.Logger),
		services.ForecastServiceConfig{
			AllowedExtensions: a.Config.Upload.AllowedExtensions,
			MaxBytes:          a.Config.Upload.MaxBytes,
			MaxConcurrentRuns: a.Config.Forecast.MaxConcurrentRuns,
		},
		a.Logger,
	)

	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, contracts.GitCommit, a.Logger)
	a.HealthService.Register("forecaster", a.probeForecaster)
	a.HealthService.Register("renderer", a.probeRenderer)
	return nil
}

// probeSeries is a two-day series used by readiness probes.
func probeSeries() domain.DailySeries {
	day := civil.Date{Year: 2024, Month: time.January, Day: 1}
	return domain.DailySeries{
		{Day: day, Amount: decimal.NewFromInt(10)},
		{Day: day.AddDays(1), Amount: decimal.NewFromInt(12)},
	}
}

func (a *Application) probeForecaster(ctx context.Context) error {
	_, _, err := a.Orchestrator.Forecaster().Forecast(ctx, probeSeries())
	return err
}

func (a *Application) probeRenderer(ctx context.Context) error {
	_, err := a.Orchestrator.Renderer().RenderHistory(ctx, probeSeries())
	return err
}

// setupRouter configures the HTTP router with all routes.
// Middleware order: RequestID, RealIP, OTel, Logger, Recoverer, headers, CORS, Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	validator := customMiddleware.NewValidator()
	uploads := []func(http.Handler) http.Handler{
		customMiddleware.UploadLimit(a.Config.Upload.MaxBytes, a.ErrorHandler),
	}
	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		)
		uploads = append([]func(http.Handler) http.Handler{limiter.Handler}, uploads...)
	}

	pages := handlers.NewPageHandler(a.ForecastService, validator, a.Config.Upload.FormField, a.Logger)
	r.Get("/", pages.Index)
	r.Group(func(r chi.Router) {
		r.Use(uploads...)
		r.Post("/", pages.Upload)
		r.Post("/upload", pages.Upload)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Group(func(r chi.Router) {
			r.Use(uploads...)
			r.Use(customMiddleware.ContentTypeValidator(a.ErrorHandler, a.Logger, "multipart/form-data"))

			forecastHandler := handlers.NewForecastHandler(
				a.ForecastService,
				validator,
				a.Config.Upload.FormField,
				forecast.DefaultConfig().Horizon,
				a.Logger,
				a.ErrorHandler,
			)
			r.Mount("/v1/forecast", forecastHandler.Routes())
		})
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// getCORSConfig allows the configured origins when CORS is enabled and
// same-origin requests otherwise.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			customMiddleware.RequestIDHeader,
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}

	cfg.AllowedOrigins = []string{fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)}
	if a.Config.Security.EnableCORS {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, a.Config.Security.AllowedOrigins...)
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, listener net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Application started",
			slog.String("address", listener.Addr().String()))
		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})
	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}
