package model

import (
	"time"

	"github.com/acastel/ytm-tracker/internal/period"
)

// RunStatus classifies the outcome of one fund within a batch run.
type RunStatus string

const (
	// RunOK means a value was extracted and stored.
	RunOK RunStatus = "ok"

	// RunSkipped means the fund already had a stored value for the period
	// and the run was not forced.
	RunSkipped RunStatus = "skipped"

	// RunFailed means extraction or storage failed for this fund. The error
	// is recorded on the result and the run continues with the next fund.
	RunFailed RunStatus = "failed"
)

// RunResult is the outcome of one fund's extraction attempt.
type RunResult struct {
	FundID     string       `json:"fund_id"`
	FundName   string       `json:"fund_name"`
	Status     RunStatus    `json:"status"`
	Period     period.Month `json:"report_period,omitempty"`
	YTMPercent float64      `json:"ytm_percent,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// RunSummary aggregates the per-fund outcomes of one batch run.
type RunSummary struct {
	Target    period.Month  `json:"target_period"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ms"`
	Results   []RunResult   `json:"results"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}
