package request

// ExtractRequest represents the request body for triggering an extraction
// run. All fields are optional: an empty body runs every fund for the
// previous month.
type ExtractRequest struct {
	// Period is the report month to extract, "2025-11" form. Empty means
	// the month before the current one.
	Period string `json:"period,omitempty"`

	// FundID restricts the run to one configured fund.
	FundID string `json:"fund_id,omitempty"`

	// Force re-extracts funds that already have a stored value for the
	// period.
	Force bool `json:"force,omitempty"`

	// DryRun extracts without persisting anything.
	DryRun bool `json:"dry_run,omitempty"`
}
