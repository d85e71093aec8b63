package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/api/handlers"
	custommiddleware "github.com/acastel/ytm-tracker/internal/api/middleware"
	"github.com/acastel/ytm-tracker/internal/config"
	"github.com/acastel/ytm-tracker/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	observationService *service.ObservationService,
	extractionService *service.ExtractionService,
	cfg *config.Config,
	log *logrus.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/funds", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(observationService)
			r.Get("/", fundHandler.Funds)

			r.Route("/{fundID}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateFundIDMiddleware)
				r.Get("/history", fundHandler.History)
			})
		})

		r.Route("/observations", func(r chi.Router) {
			observationHandler := handlers.NewObservationHandler(observationService)
			r.Get("/", observationHandler.ByPeriod)
			r.Get("/latest", observationHandler.Latest)
			r.Get("/periods", observationHandler.Periods)
			r.With(custommiddleware.APIKeyMiddleware).Post("/import", observationHandler.Import)
		})

		// Mutating endpoints require the shared API key.
		extractHandler := handlers.NewExtractHandler(extractionService)
		r.With(custommiddleware.APIKeyMiddleware).Post("/extract", extractHandler.Run)
	})

	// Generated dashboard pages, served as-is from the output directory.
	dashboardDir := http.Dir(cfg.Dashboard.Dir)
	r.Handle("/dashboard", http.RedirectHandler("/dashboard/", http.StatusMovedPermanently))
	r.Handle("/dashboard/*", http.StripPrefix("/dashboard/", http.FileServer(dashboardDir)))

	return r
}
