package validation

import (
	"strings"

	"github.com/acastel/ytm-tracker/internal/api/request"
	"github.com/acastel/ytm-tracker/internal/period"
)

// YTM figures for investment-grade target-maturity funds sit in the low
// single digits. The bound is generous so unusual markets still pass,
// while a percentage grabbed from the wrong metric does not.
const maxPlausibleYTM = 25.0

// ValidateImportObservation validates a manual observation import.
//
// Required fields:
//   - fund_id: Must be a registry slug
//   - report_period: Must be a "2025-11" style month
//   - ytm_percent: Must be positive and plausible for a bond fund
func ValidateImportObservation(req request.ImportObservationRequest) error {
	if err := ValidateFundID(req.FundID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.ReportPeriod) == "" {
		errors["report_period"] = "report_period is required"
	} else if _, err := period.Parse(req.ReportPeriod); err != nil {
		errors["report_period"] = err.Error()
	}

	if req.YTMPercent <= 0 {
		errors["ytm_percent"] = "ytm_percent must be positive"
	} else if req.YTMPercent > maxPlausibleYTM {
		errors["ytm_percent"] = "ytm_percent is implausibly high for a bond fund"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateExtractRequest validates an extraction trigger request. All
// fields are optional, but provided ones must be well formed.
func ValidateExtractRequest(req request.ExtractRequest) error {
	errors := make(map[string]string)

	if req.Period != "" {
		if _, err := period.Parse(req.Period); err != nil {
			errors["period"] = err.Error()
		}
	}

	if req.FundID != "" {
		if err := ValidateFundID(req.FundID); err != nil {
			errors["fund_id"] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
