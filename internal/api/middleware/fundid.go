// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acastel/ytm-tracker/internal/api/response"
	"github.com/acastel/ytm-tracker/internal/validation"
)

// ValidateFundIDMiddleware validates that the fundID URL parameter is present
// and matches the registry id format (lowercase snake case).
// Returns 400 Bad Request if the fund id is missing or malformed.
// This middleware should be applied to routes that take a fund id in the URL path.
//
// Example usage in router:
//
//	r.Route("/{fundID}", func(r chi.Router) {
//	    r.Use(middleware.ValidateFundIDMiddleware)
//	    r.Get("/history", handler.History)
//	})
func ValidateFundIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fundID := chi.URLParam(r, "fundID")

		if fundID == "" {
			response.RespondError(w, http.StatusBadRequest, "fund id is required", "")
			return
		}

		if err := validation.ValidateFundID(fundID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid fund id format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
