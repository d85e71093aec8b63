package model

import (
	"time"

	"github.com/acastel/ytm-tracker/internal/period"
)

// Observation is one fund's yield-to-maturity figure for one report month.
// Fund attributes are denormalized onto the row so a reading stays
// interpretable even after the fund configuration changes.
type Observation struct {
	ID             string       `json:"id"`
	FundID         string       `json:"fund_id"`
	Isin           string       `json:"isin"`
	FundName       string       `json:"fund_name"`
	Provider       Provider     `json:"provider"`
	FundURL        string       `json:"fund_url"`
	MaturityYear   int          `json:"maturity_year"`
	YTMPercent     float64      `json:"ytm_percent"`
	ReportPeriod   period.Month `json:"report_period"`
	Source         SourceKind   `json:"source_type"`
	SourceDocument string       `json:"source_document,omitempty"`
	ExtractedAt    time.Time    `json:"extracted_at"`
}
