package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/acastel/ytm-tracker/internal/api/request"
	"github.com/acastel/ytm-tracker/internal/api/response"
	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/service"
	"github.com/acastel/ytm-tracker/internal/validation"
)

// ObservationHandler handles HTTP requests for stored yield observations.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the observationService.
type ObservationHandler struct {
	observationService *service.ObservationService
}

// NewObservationHandler creates a new ObservationHandler with the provided service dependency.
func NewObservationHandler(observationService *service.ObservationService) *ObservationHandler {
	return &ObservationHandler{
		observationService: observationService,
	}
}

// ObservationResponse represents one stored yield observation.
type ObservationResponse struct {
	ID             string       `json:"id"`
	FundID         string       `json:"fund_id"`
	Isin           string       `json:"isin,omitempty"`
	FundName       string       `json:"fund_name"`
	Provider       string       `json:"provider"`
	FundURL        string       `json:"fund_url"`
	MaturityYear   int          `json:"maturity_year"`
	YTMPercent     float64      `json:"ytm_percent"`
	ReportPeriod   period.Month `json:"report_period"`
	Source         string       `json:"source_type"`
	SourceDocument string       `json:"source_document,omitempty"`
	ExtractedAt    time.Time    `json:"extracted_at"`
}

func newObservationResponse(obs model.Observation) ObservationResponse {
	return ObservationResponse{
		ID:             obs.ID,
		FundID:         obs.FundID,
		Isin:           obs.Isin,
		FundName:       obs.FundName,
		Provider:       string(obs.Provider),
		FundURL:        obs.FundURL,
		MaturityYear:   obs.MaturityYear,
		YTMPercent:     obs.YTMPercent,
		ReportPeriod:   obs.ReportPeriod,
		Source:         string(obs.Source),
		SourceDocument: obs.SourceDocument,
		ExtractedAt:    obs.ExtractedAt,
	}
}

func newObservationResponses(observations []model.Observation) []ObservationResponse {
	resp := make([]ObservationResponse, len(observations))
	for i, obs := range observations {
		resp[i] = newObservationResponse(obs)
	}
	return resp
}

// Latest handles GET requests to retrieve the newest observation per fund.
//
// Endpoint: GET /api/observations/latest
// Response: 200 OK with array of ObservationResponse, ordered by maturity year
// Error: 500 Internal Server Error if retrieval fails
func (h *ObservationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	observations, err := h.observationService.GetLatest()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveObservations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, newObservationResponses(observations))
}

// ByPeriod handles GET requests to retrieve all observations for one report month.
//
// Endpoint: GET /api/observations?period=YYYY-MM
// Response: 200 OK with array of ObservationResponse, ordered by maturity year
// Error: 400 Bad Request if the period parameter is missing or malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *ObservationHandler) ByPeriod(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		response.RespondError(w, http.StatusBadRequest, "period query parameter is required", "expected period=YYYY-MM")
		return
	}

	p, err := period.Parse(raw)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	observations, err := h.observationService.GetByPeriod(p)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveObservations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, newObservationResponses(observations))
}

// Periods handles GET requests to list every report month with stored
// observations, newest first.
//
// Endpoint: GET /api/observations/periods
// Response: 200 OK with array of "YYYY-MM" strings
// Error: 500 Internal Server Error if retrieval fails
func (h *ObservationHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.observationService.GetPeriods()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveObservations.Error(), err.Error())
		return
	}

	resp := make([]string, len(periods))
	for i, p := range periods {
		resp[i] = p.String()
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// ImportObservationResponse reports the outcome of a manual import.
// Observation is only set when a row was written.
type ImportObservationResponse struct {
	Imported    bool                 `json:"imported"`
	Observation *ObservationResponse `json:"observation,omitempty"`
}

// Import handles POST requests to record a manually sourced observation.
// Periods that already have a stored value are left untouched and reported
// with imported=false.
//
// Endpoint: POST /api/observations/import
// Request Body: ImportObservationRequest (fund_id, report_period, ytm_percent, and optionally source_document)
// Response: 201 Created with ImportObservationResponse when a row was written
// Response: 200 OK with ImportObservationResponse when the period already existed
// Error: 400 Bad Request if validation fails or the request body is invalid
// Error: 404 Not Found if the fund is not configured
// Error: 503 Service Unavailable if storage is unreachable
func (h *ObservationHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ImportObservationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportObservation(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	p, err := period.Parse(req.ReportPeriod)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}

	stored, imported, err := h.observationService.Import(r.Context(), req.FundID, p, req.YTMPercent, req.SourceDocument)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidPeriod):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		case errors.Is(err, apperrors.ErrStorageUnavailable):
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrStorageUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToStoreObservation.Error(), err.Error())
		}
		return
	}

	if !imported {
		response.RespondJSON(w, http.StatusOK, ImportObservationResponse{Imported: false})
		return
	}

	obs := newObservationResponse(stored)
	response.RespondJSON(w, http.StatusCreated, ImportObservationResponse{
		Imported:    true,
		Observation: &obs,
	})
}
