// ytmd is the long-running service: it serves the HTTP API and the
// generated dashboard pages, and runs the extraction pipeline on a
// monthly schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/acastel/ytm-tracker/internal/api"
	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/config"
	"github.com/acastel/ytm-tracker/internal/dashboard"
	"github.com/acastel/ytm-tracker/internal/database"
	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/extract"
	"github.com/acastel/ytm-tracker/internal/fetch"
	"github.com/acastel/ytm-tracker/internal/repository"
	"github.com/acastel/ytm-tracker/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	funds, err := config.Funds()
	if err != nil {
		log.Fatalf("Failed to load fund registry: %v", err)
	}

	// Open database connection and bring the schema up to date
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, log); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.WithField("path", cfg.Database.Path).Info("Connected to database")

	// Sycomore report URLs only answer with a PDF when the request carries
	// the guest profile cookie.
	fetchOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithRetries(cfg.Fetch.Retries),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithLogger(log),
	}
	sycomoreSession, err := cfg.SycomoreSession()
	if err != nil {
		log.Fatalf("Failed to decrypt Sycomore session cookie: %v", err)
	}
	if sycomoreSession != "" {
		fetchOpts = append(fetchOpts, fetch.WithCookie("sycomore-am.com", &http.Cookie{
			Name:  "guest_profile",
			Value: sycomoreSession,
		}))
	}

	browser := browse.NewHTTPBrowser(fetch.New(fetchOpts...))
	docs := docstore.New(cfg.Docs.Dir, log)

	registry := extract.NewRegistry(
		extract.NewCarmignacStrategy(browser, docs, log),
		extract.NewSycomoreStrategy(browser, docs, log),
		extract.NewRothschildStrategy(browser, docs, log),
	)

	// Create repositories and services
	observationRepo := repository.NewObservationRepository(db)

	systemService := service.NewSystemService(db)
	observationService := service.NewObservationService(observationRepo, funds)
	extractionService := service.NewExtractionService(observationRepo, registry, funds, log)
	generator := dashboard.NewGenerator(observationService, cfg.Dashboard.Dir, dashboard.DefaultColors(), log)

	// Create router
	router := api.NewRouter(systemService, observationService, extractionService, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Extract.Schedule, func() {
		runScheduled(ctx, extractionService, generator, log)
	}); err != nil {
		log.Fatalf("Invalid extraction schedule %q: %v", cfg.Extract.Schedule, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.Server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		log.WithField("schedule", cfg.Extract.Schedule).Info("Extraction scheduler started")
		<-gctx.Done()
		// Stop waits for a job in flight before reporting done.
		<-scheduler.Stop().Done()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Service stopped with error: %v", err)
	}
	log.Info("Service stopped")
}

// runScheduled runs one extraction pass for the previous month and
// refreshes the dashboard pages when anything new was recorded. Per-fund
// failures are already in the summary; only a cancelled context or
// unreachable storage abort the pass itself.
func runScheduled(ctx context.Context, extraction *service.ExtractionService, generator *dashboard.Generator, log *logrus.Logger) {
	summary, err := extraction.Run(ctx, service.RunOptions{})
	if err != nil {
		log.WithField("error", err.Error()).Error("Scheduled extraction aborted")
		return
	}
	if summary.Succeeded == 0 {
		log.Info("Scheduled extraction recorded nothing new")
		return
	}
	if _, err := generator.GenerateAll(); err != nil {
		log.WithField("error", err.Error()).Error("Dashboard refresh failed")
	}
}
