package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/config"
	"github.com/acastel/ytm-tracker/internal/database"
	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/extract"
	"github.com/acastel/ytm-tracker/internal/fetch"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/repository"
	"github.com/acastel/ytm-tracker/internal/service"
)

// app bundles what most commands need. The CLI is short-lived: each
// command opens an app, runs, and lets process exit clean up.
type app struct {
	cfg   *config.Config
	db    *sql.DB
	log   *logrus.Logger
	funds []model.Fund
}

// openApp loads configuration and the fund registry, opens the store,
// and brings the schema up to date. Commands print their own results, so
// the logger stays at warning level to keep tables readable.
func openApp() (*app, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetLevel(logrus.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	funds, err := config.Funds()
	if err != nil {
		return nil, fmt.Errorf("loading fund registry: %w", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &app{cfg: cfg, db: db, log: log, funds: funds}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) observations() *service.ObservationService {
	return service.NewObservationService(repository.NewObservationRepository(a.db), a.funds)
}

// extraction wires the real provider strategies. The Sycomore report URLs
// only answer with a PDF when the request carries the guest profile cookie.
func (a *app) extraction() (*service.ExtractionService, error) {
	fetchOpts := []fetch.Option{
		fetch.WithTimeout(a.cfg.Fetch.Timeout),
		fetch.WithRetries(a.cfg.Fetch.Retries),
		fetch.WithUserAgent(a.cfg.Fetch.UserAgent),
		fetch.WithLogger(a.log),
	}
	sycomoreSession, err := a.cfg.SycomoreSession()
	if err != nil {
		return nil, fmt.Errorf("decrypting Sycomore session cookie: %w", err)
	}
	if sycomoreSession != "" {
		fetchOpts = append(fetchOpts, fetch.WithCookie("sycomore-am.com", &http.Cookie{
			Name:  "guest_profile",
			Value: sycomoreSession,
		}))
	}

	browser := browse.NewHTTPBrowser(fetch.New(fetchOpts...))
	docs := docstore.New(a.cfg.Docs.Dir, a.log)

	registry := extract.NewRegistry(
		extract.NewCarmignacStrategy(browser, docs, a.log),
		extract.NewSycomoreStrategy(browser, docs, a.log),
		extract.NewRothschildStrategy(browser, docs, a.log),
	)

	return service.NewExtractionService(
		repository.NewObservationRepository(a.db),
		registry,
		a.funds,
		a.log,
	), nil
}
