package extract

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// Label vocabulary for Rothschild monthly reports. The key figures
// table prints "Taux actuariel EUR 2,85" with no percent sign, so those
// candidates match a bare decimal after the EUR unit.
var rothschildCandidates = []Candidate{
	{Label: "Taux actuariel", Infix: "EUR"},
	{Label: "YTW", Infix: "EUR"},
	{Label: "Yield to Maturity", Percent: true},
	{Label: "YTM", Percent: true},
	{Label: "Rendement actuariel", Percent: true},
	{Label: "Rendement à maturité", Percent: true},
}

// RothschildStrategy downloads monthly report PDFs linked from the fund
// page. The documents list mixes vintages and share classes, so every
// candidate is downloaded and authenticated in turn until one proves to
// be this fund's current report.
type RothschildStrategy struct {
	browser browse.Browser
	docs    *docstore.Store
	matcher *Matcher
	log     *logrus.Logger
}

func NewRothschildStrategy(browser browse.Browser, docs *docstore.Store, log *logrus.Logger) *RothschildStrategy {
	return &RothschildStrategy{
		browser: browser,
		docs:    docs,
		matcher: NewMatcher(rothschildCandidates...),
		log:     log,
	}
}

func (s *RothschildStrategy) Provider() model.Provider {
	return model.ProviderRothschild
}

func (s *RothschildStrategy) Extract(ctx context.Context, fund model.Fund, target period.Month) (model.Observation, error) {
	page, err := s.browser.Open(ctx, fund.URL)
	if err != nil {
		return model.Observation{}, err
	}

	candidates := s.candidateReports(page)
	if len(candidates) == 0 {
		return model.Observation{}, fmt.Errorf("%w: no monthly report link on %s", apperrors.ErrValueNotFound, fund.URL)
	}

	var lastErr error
	for _, url := range candidates {
		if err := ctx.Err(); err != nil {
			return model.Observation{}, err
		}

		raw, text, err := fetchReport(ctx, s.browser, url)
		if err != nil {
			lastErr = err
			continue
		}

		documented, err := AuthenticateDocument(text, DocumentChecks{
			FundName:  fund.Name,
			NameAlias: "Target 202",
			Isin:      fund.Isin,
		}, target)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"fund":   fund.ID,
				"url":    url,
				"reason": err.Error(),
			}).Debug("Candidate report rejected")
			lastErr = err
			continue
		}

		match, err := s.matcher.FindValue(text)
		if err != nil {
			lastErr = err
			continue
		}

		path, err := s.docs.SaveReport(fund.ID, documented, raw)
		if err != nil {
			return model.Observation{}, err
		}

		s.log.WithFields(logrus.Fields{
			"fund":   fund.ID,
			"value":  match.Value,
			"label":  match.Label,
			"period": documented.String(),
		}).Info("Extracted yield from report")

		return newObservation(fund, match.Value, documented, model.SourcePDF, path), nil
	}

	return model.Observation{}, fmt.Errorf("failed to validate %d candidate reports: %w", len(candidates), lastErr)
}

// candidateReports collects monthly report links in order of
// specificity. KIID documents share the list and are filtered out here
// and again at authentication.
func (s *RothschildStrategy) candidateReports(page *browse.Page) []string {
	var preferred, fallback []string
	for _, l := range page.Links() {
		if !l.IsPDF() {
			continue
		}

		text := Fold(l.Text)
		if !containsAny(text, "mensuel", "monthly") {
			continue
		}
		if containsAny(text, "kiid", "dic", "document d'information") {
			continue
		}

		if containsAny(text, "rapport mensuel", "monthly report") {
			preferred = append(preferred, l.URL)
		} else {
			fallback = append(fallback, l.URL)
		}
	}
	return append(preferred, fallback...)
}
