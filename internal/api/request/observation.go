package request

// ImportObservationRequest represents the request body for recording a
// manually sourced observation, used to backfill months that predate the
// automated pipeline.
type ImportObservationRequest struct {
	FundID       string  `json:"fund_id"`
	ReportPeriod string  `json:"report_period"`
	YTMPercent   float64 `json:"ytm_percent"`

	// SourceDocument names where the figure was read from.
	SourceDocument string `json:"source_document,omitempty"`
}
