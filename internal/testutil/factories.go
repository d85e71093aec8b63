package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// ObservationBuilder provides a fluent interface for creating test
// observations.
//
// Example usage:
//
//	// Simple creation with defaults
//	obs := testutil.NewObservation().Build(t, db)
//
//	// Customized observation
//	obs := testutil.NewObservation().
//	    WithFundID("sycomore_2030").
//	    WithPeriod(period.New(2025, 11)).
//	    WithValue(4.90).
//	    Build(t, db)
type ObservationBuilder struct {
	ID             string
	FundID         string
	Isin           string
	FundName       string
	Provider       model.Provider
	FundURL        string
	MaturityYear   int
	YTMPercent     float64
	ReportPeriod   period.Month
	Source         model.SourceKind
	SourceDocument string
	ExtractedAt    time.Time
}

// NewObservation creates an ObservationBuilder with sensible defaults.
func NewObservation() *ObservationBuilder {
	return &ObservationBuilder{
		ID:           MakeID(),
		FundID:       "carmignac_2029",
		Isin:         "FR001400KAV4",
		FundName:     "Carmignac Crédit 2029",
		Provider:     model.ProviderCarmignac,
		FundURL:      "https://www.carmignac.com/funds/credit-2029",
		MaturityYear: 2029,
		YTMPercent:   4.60,
		ReportPeriod: period.New(2025, 10),
		Source:       model.SourceWeb,
		ExtractedAt:  time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *ObservationBuilder) WithID(id string) *ObservationBuilder {
	b.ID = id
	return b
}

// WithFund copies identity fields from a configured fund.
func (b *ObservationBuilder) WithFund(f model.Fund) *ObservationBuilder {
	b.FundID = f.ID
	b.Isin = f.Isin
	b.FundName = f.Name
	b.Provider = f.Provider
	b.FundURL = f.URL
	b.MaturityYear = f.MaturityYear
	return b
}

// WithFundID sets a custom fund id.
func (b *ObservationBuilder) WithFundID(fundID string) *ObservationBuilder {
	b.FundID = fundID
	return b
}

// WithFundName sets a custom fund name.
func (b *ObservationBuilder) WithFundName(name string) *ObservationBuilder {
	b.FundName = name
	return b
}

// WithProvider sets a custom provider.
func (b *ObservationBuilder) WithProvider(provider model.Provider) *ObservationBuilder {
	b.Provider = provider
	return b
}

// WithMaturityYear sets a custom maturity year.
func (b *ObservationBuilder) WithMaturityYear(year int) *ObservationBuilder {
	b.MaturityYear = year
	return b
}

// WithPeriod sets the report month.
func (b *ObservationBuilder) WithPeriod(p period.Month) *ObservationBuilder {
	b.ReportPeriod = p
	return b
}

// WithValue sets the YTM percentage.
func (b *ObservationBuilder) WithValue(value float64) *ObservationBuilder {
	b.YTMPercent = value
	return b
}

// WithSource sets the source kind and document.
func (b *ObservationBuilder) WithSource(source model.SourceKind, document string) *ObservationBuilder {
	b.Source = source
	b.SourceDocument = document
	return b
}

// Build creates the observation in the database and returns it.
func (b *ObservationBuilder) Build(t *testing.T, db *sql.DB) model.Observation {
	t.Helper()

	query := `
		INSERT INTO observation (
			id, fund_id, isin, fund_name, provider, fund_url,
			maturity_year, ytm_percent, report_period,
			source_type, source_document, extracted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.FundID,
		b.Isin,
		b.FundName,
		string(b.Provider),
		b.FundURL,
		b.MaturityYear,
		b.YTMPercent,
		b.ReportPeriod.DateString(),
		string(b.Source),
		b.SourceDocument,
		b.ExtractedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test observation: %v", err)
	}

	return model.Observation{
		ID:             b.ID,
		FundID:         b.FundID,
		Isin:           b.Isin,
		FundName:       b.FundName,
		Provider:       b.Provider,
		FundURL:        b.FundURL,
		MaturityYear:   b.MaturityYear,
		YTMPercent:     b.YTMPercent,
		ReportPeriod:   b.ReportPeriod,
		Source:         b.Source,
		SourceDocument: b.SourceDocument,
		ExtractedAt:    b.ExtractedAt,
	}
}
