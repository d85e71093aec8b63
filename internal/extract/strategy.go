package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/pdftext"
	"github.com/acastel/ytm-tracker/internal/period"
)

// Strategy extracts one fund's yield figure for a target month. All
// failures come back as typed errors; a strategy never aborts anything
// beyond its own attempt, and the runner decides what a failure means
// for the rest of the batch.
type Strategy interface {
	Provider() model.Provider
	Extract(ctx context.Context, fund model.Fund, target period.Month) (model.Observation, error)
}

// Registry maps providers to their strategies.
type Registry struct {
	strategies map[model.Provider]Strategy
}

func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[model.Provider]Strategy)}
	for _, s := range strategies {
		r.strategies[s.Provider()] = s
	}
	return r
}

// For returns the strategy handling the given provider.
func (r *Registry) For(provider model.Provider) (Strategy, error) {
	s, ok := r.strategies[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrProviderNotFound, provider)
	}
	return s, nil
}

// newObservation fills the denormalized fund columns every strategy
// stores alongside the extracted value.
func newObservation(fund model.Fund, value float64, p period.Month, source model.SourceKind, sourceDocument string) model.Observation {
	return model.Observation{
		FundID:         fund.ID,
		Isin:           fund.Isin,
		FundName:       fund.Name,
		Provider:       fund.Provider,
		FundURL:        fund.URL,
		MaturityYear:   fund.MaturityYear,
		YTMPercent:     value,
		ReportPeriod:   p,
		Source:         source,
		SourceDocument: sourceDocument,
	}
}

// fetchReport downloads a candidate report and extracts its text,
// verifying the payload really is a PDF first. Servers behind consent
// walls like to answer PDF URLs with an HTML interstitial.
func fetchReport(ctx context.Context, b browse.Browser, url string) ([]byte, string, error) {
	raw, err := b.Download(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if !pdftext.IsPDF(raw) {
		return nil, "", fmt.Errorf("%w: %s", apperrors.ErrNotAPdf, url)
	}

	text, err := pdftext.Extract(raw)
	if err != nil {
		return nil, "", err
	}
	return raw, text, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
