package testutil

import (
	"context"

	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// MockStrategy is a mock implementation of extract.Strategy for testing.
// It fabricates observations instead of scraping provider sources.
type MockStrategy struct {
	// Prov is the provider this strategy claims to handle
	Prov model.Provider
	// MockValue is the YTM percentage returned on success
	MockValue float64
	// MockError is the error to return instead of an observation
	MockError error
	// MockPeriod optionally overrides the reported month, mimicking a
	// factsheet dated for an earlier period
	MockPeriod func(target period.Month) period.Month
	// ExtractCount tracks how many times Extract was called
	ExtractCount int
}

// NewMockStrategy creates a mock strategy for the given provider that
// reports the given yield for whatever month is requested.
func NewMockStrategy(provider model.Provider, value float64) *MockStrategy {
	return &MockStrategy{
		Prov:      provider,
		MockValue: value,
	}
}

// Provider returns the provider this mock claims to handle.
func (m *MockStrategy) Provider() model.Provider {
	return m.Prov
}

// Extract returns the configured canned outcome, denormalizing the fund's
// identity fields the way real strategies do.
func (m *MockStrategy) Extract(_ context.Context, fund model.Fund, target period.Month) (model.Observation, error) {
	m.ExtractCount++
	if m.MockError != nil {
		return model.Observation{}, m.MockError
	}

	reported := target
	if m.MockPeriod != nil {
		reported = m.MockPeriod(target)
	}

	return model.Observation{
		FundID:       fund.ID,
		Isin:         fund.Isin,
		FundName:     fund.Name,
		Provider:     fund.Provider,
		FundURL:      fund.URL,
		MaturityYear: fund.MaturityYear,
		YTMPercent:   m.MockValue,
		ReportPeriod: reported,
		Source:       fund.Source,
	}, nil
}

// WithError configures the mock to fail with the specified error.
func (m *MockStrategy) WithError(err error) *MockStrategy {
	m.MockError = err
	return m
}

// WithReportedPeriod configures the mock to re-point observations the way
// a strategy does when the document turns out to cover another month.
func (m *MockStrategy) WithReportedPeriod(f func(target period.Month) period.Month) *MockStrategy {
	m.MockPeriod = f
	return m
}
