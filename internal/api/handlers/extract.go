package handlers

import (
	"errors"
	"io"
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

// ExtractHandler handles HTTP requests that trigger extraction runs.
type ExtractHandler struct {
	extractionService *service.ExtractionService
}

// NewExtractHandler creates a new ExtractHandler with the provided service dependency.
func NewExtractHandler(extractionService *service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{
		extractionService: extractionService,
	}
}

// ExtractRunResponse summarizes one extraction run.
type ExtractRunResponse struct {
	TargetPeriod period.Month      `json:"target_period"`
	StartedAt    time.Time         `json:"started_at"`
	DurationMS   int64             `json:"duration_ms"`
	Succeeded    int               `json:"succeeded"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	Results      []model.RunResult `json:"results"`
}

// Run handles POST requests to run the extraction pipeline synchronously.
// The body is optional; an empty body runs all funds for the default period.
//
// Endpoint: POST /api/extract
// Request Body: ExtractRequest (optionally period, fund_id, force, dry_run)
// Response: 200 OK with ExtractRunResponse; per-fund failures are reported
// inside the summary, not as an HTTP error
// Error: 400 Bad Request if validation fails or the request body is invalid
// Error: 404 Not Found if fund_id names an unconfigured fund
// Error: 503 Service Unavailable if storage became unreachable mid-run
func (h *ExtractHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ExtractRequest](r)
	if err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateExtractRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	var target period.Month
	if req.Period != "" {
		target, err = period.Parse(req.Period)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
			return
		}
	}

	summary, err := h.extractionService.Run(r.Context(), service.RunOptions{
		Period: target,
		FundID: req.FundID,
		Force:  req.Force,
		DryRun: req.DryRun,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrStorageUnavailable):
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrStorageUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunExtraction.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, ExtractRunResponse{
		TargetPeriod: summary.Target,
		StartedAt:    summary.StartedAt,
		DurationMS:   summary.Duration.Milliseconds(),
		Succeeded:    summary.Succeeded,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
		Results:      summary.Results,
	})
}
