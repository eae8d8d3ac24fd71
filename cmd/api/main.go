// Package main is the entry point for the Audio Reader API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/audioreader-api/internal/api"
	"github.com/zapponejosh/audioreader-api/internal/archive"
	"github.com/zapponejosh/audioreader-api/internal/calendar"
	"github.com/zapponejosh/audioreader-api/internal/config"
	"github.com/zapponejosh/audioreader-api/internal/database"
	"github.com/zapponejosh/audioreader-api/internal/feed"
	"github.com/zapponejosh/audioreader-api/internal/logger"
	"github.com/zapponejosh/audioreader-api/internal/lookup"
	"github.com/zapponejosh/audioreader-api/internal/metrics"
	"github.com/zapponejosh/audioreader-api/internal/schedule"
	"github.com/zapponejosh/audioreader-api/internal/speech"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	log.Info("starting audio reader API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.StationTimezone),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// =========================================================================
	// Storage and lookup tables
	// =========================================================================
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	regionRows, err := db.ListRegionCodes(ctx)
	if err != nil {
		return err
	}
	correctionRows, err := db.ListTitleCorrections(ctx)
	if err != nil {
		return err
	}
	regions := lookup.New(regionRows, lookup.Exact)
	corrections := lookup.New(correctionRows, lookup.Folded)

	log.Info("lookup tables loaded",
		slog.Int("region_codes", regions.Len()),
		slog.Int("title_corrections", corrections.Len()),
	)

	// =========================================================================
	// Services
	// =========================================================================
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	resolver := schedule.NewResolver(log, schedule.WithFallbackHook(func(schedule.Entry) {
		m.DurationFallback()
	}))

	handlers := api.NewHandlers(api.Deps{
		Health:      db,
		Feed:        feed.NewClient(cfg.ScheduleURL, cfg.FetchTimeout, log, m),
		Resolver:    resolver,
		Locator:     archive.NewLocator(cfg.ArchiveURL, regions, resolver),
		Corrections: corrections,
		Clock:       calendar.NewClock(loc, nil),
		Speech:      speech.NewRenderer(cfg.StationName),
		Config:      cfg,
		Metrics:     m,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, reg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// =========================================================================
	// Lifecycle
	// =========================================================================
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("audio reader API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
