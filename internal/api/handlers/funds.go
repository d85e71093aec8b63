package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acastel/ytm-tracker/internal/api/request"
	"github.com/acastel/ytm-tracker/internal/api/response"
	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/service"
)

// FundHandler handles fund registry HTTP requests.
// Funds come from configuration, so these endpoints never touch the
// database except to read per-fund history.
type FundHandler struct {
	observationService *service.ObservationService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(observationService *service.ObservationService) *FundHandler {
	return &FundHandler{
		observationService: observationService,
	}
}

// FundResponse represents one configured fund.
type FundResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Isin         string `json:"isin"`
	Provider     string `json:"provider"`
	MaturityYear int    `json:"maturity_year"`
	URL          string `json:"url"`
	Source       string `json:"source_type"`
}

// Funds handles GET requests to list the configured fund registry.
//
// Endpoint: GET /api/funds
// Response: 200 OK with array of FundResponse
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	funds := h.observationService.GetFunds()

	resp := make([]FundResponse, len(funds))
	for i, f := range funds {
		resp[i] = FundResponse{
			ID:           f.ID,
			Name:         f.Name,
			Isin:         f.Isin,
			Provider:     string(f.Provider),
			MaturityYear: f.MaturityYear,
			URL:          f.URL,
			Source:       string(f.Source),
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// History handles GET requests to retrieve one fund's stored observations,
// newest first. Optional from/to query parameters narrow the result to a
// period range.
//
// Endpoint: GET /api/funds/{fundID}/history?from=YYYY-MM&to=YYYY-MM
// Response: 200 OK with array of ObservationResponse
// Error: 400 Bad Request if the fund id or a period bound is malformed
// Error: 404 Not Found if the fund has neither configuration nor history
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) History(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "fundID")

	filters, err := request.ParseHistoryFilters(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	history, err := h.observationService.GetHistory(fundID, filters.From, filters.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrEmptyID) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrEmptyID.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, newObservationResponses(history))
}
