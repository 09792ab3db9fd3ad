package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpiassess/internal/domain/assessment"
	"kpiassess/internal/domain/audit"
	"kpiassess/internal/domain/reports"
	"kpiassess/internal/platform/config"
	"kpiassess/internal/platform/db"
	"kpiassess/internal/platform/jobs"
	"kpiassess/internal/platform/metrics"
	"kpiassess/internal/platform/pdf"
	assessmenthandler "kpiassess/internal/transport/http/handlers/assessment"
	audithandler "kpiassess/internal/transport/http/handlers/audit"
	"kpiassess/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Metrics *metrics.Collector
	Router  http.Handler
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(NewLogger(cfg, os.Stdout))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("kpiassess server listening", "addr", cfg.Addr, "audit", cfg.AuditEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "err", err)
		}
	}
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(cfg config.Config, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	var recorder assessmenthandler.AuditRecorder
	var auditService *audit.Service
	if cfg.AuditEnabled() {
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		app.DB = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		auditService = audit.New(pool)
		recorder = auditService
		jobs.New(auditService, cfg.AuditPruneInterval, cfg.AuditRetention).Start(ctx)
	}

	service := reports.NewService(catalog, pdf.New(),
		reports.WithMetrics(app.Metrics),
		reports.WithBranding(cfg.ReportTitle, cfg.ReportLogoPath),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(app.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if app.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := app.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if app.Metrics != nil {
		router.Handle("/metrics", app.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.RenderRateLimit(cfg.RateLimitPerMinute, time.Minute))

		assessmentHandler := assessmenthandler.NewHandler(service, recorder)
		assessmentHandler.RegisterRoutes(r)

		if auditService != nil {
			auditHandler := audithandler.NewHandler(auditService)
			auditHandler.RegisterRoutes(r)
		}
	})

	app.Router = router
	return app, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func loadCatalog(cfg config.Config) (*assessment.Catalog, error) {
	var (
		catalog *assessment.Catalog
		err     error
	)
	if cfg.VariantsFile != "" {
		catalog, err = assessment.LoadCatalogFile(cfg.VariantsFile)
	} else {
		catalog, err = assessment.DefaultCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	if cfg.DefaultVariant != "" {
		if err := catalog.SetDefault(cfg.DefaultVariant); err != nil {
			return nil, fmt.Errorf("DEFAULT_VARIANT: %w", err)
		}
	}
	return catalog, nil
}
