package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// Label vocabulary for Sycomore monthly reports, French first. The
// footnoted form "Rendement à maturité**" is covered by the matcher's
// lookahead shape.
var sycomoreCandidates = []Candidate{
	{Label: "Rendement à maturité", Percent: true},
	{Label: "YTM", Percent: true},
}

// SycomoreStrategy downloads the monthly report PDF linked from the
// fund page and reads the yield out of it. Report URLs only answer with
// a PDF when the request carries the guest profile cookie; the fetch
// client is configured with it at startup.
type SycomoreStrategy struct {
	browser browse.Browser
	docs    *docstore.Store
	matcher *Matcher
	log     *logrus.Logger
}

func NewSycomoreStrategy(browser browse.Browser, docs *docstore.Store, log *logrus.Logger) *SycomoreStrategy {
	return &SycomoreStrategy{
		browser: browser,
		docs:    docs,
		matcher: NewMatcher(sycomoreCandidates...),
		log:     log,
	}
}

func (s *SycomoreStrategy) Provider() model.Provider {
	return model.ProviderSycomore
}

func (s *SycomoreStrategy) Extract(ctx context.Context, fund model.Fund, target period.Month) (model.Observation, error) {
	page, err := s.browser.Open(ctx, fund.URL)
	if err != nil {
		return model.Observation{}, err
	}

	reportURL, ok := s.locateReport(page)
	if !ok {
		return model.Observation{}, fmt.Errorf("%w: no report download link on %s", apperrors.ErrValueNotFound, fund.URL)
	}

	raw, text, err := fetchReport(ctx, s.browser, reportURL)
	if err != nil {
		return model.Observation{}, err
	}

	documented, err := AuthenticateDocument(text, DocumentChecks{
		FundName:  fund.Name,
		NameAlias: "Sycoyield",
		Isin:      fund.Isin,
	}, target)
	if err != nil {
		s.keepRejected(fund, raw, err)
		return model.Observation{}, err
	}

	match, err := s.matcher.FindValue(text)
	if err != nil {
		return model.Observation{}, err
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

// locateReport picks the report download link off the fund page, trying
// the most specific markers first.
func (s *SycomoreStrategy) locateReport(page *browse.Page) (string, bool) {
	links := page.Links()

	// The "Voir le dernier reporting" button is the canonical path.
	for _, l := range links {
		if strings.Contains(Fold(l.Text), "voir le dernier reporting") {
			return l.URL, true
		}
	}

	for _, l := range links {
		if strings.Contains(l.URL, "/telecharger/reporting/") {
			return l.URL, true
		}
	}

	for _, l := range links {
		if l.IsPDF() && containsAny(Fold(l.Text), "mensuel", "monthly") {
			return l.URL, true
		}
	}
	return "", false
}

// keepRejected retains a document that failed authentication so the
// rejection can be inspected later. Rejected documents never become
// stored reports.
func (s *SycomoreStrategy) keepRejected(fund model.Fund, raw []byte, cause error) {
	if _, err := s.docs.SaveDiagnostic(fund.ID, "pdf", raw); err != nil {
		s.log.WithFields(logrus.Fields{
			"fund":  fund.ID,
			"cause": cause.Error(),
			"error": err.Error(),
		}).Warn("Failed to retain rejected document")
	}
}
