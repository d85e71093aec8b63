package extract

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/browse"
	"github.com/acastel/ytm-tracker/internal/docstore"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// Label vocabulary for Carmignac fund pages, English first. The pages
// serve both locales from the configured URLs, and the English variant
// is what the fund registry points at.
var carmignacCandidates = []Candidate{
	{Label: "Yield to Maturity", Percent: true},
	{Label: "Rendement à maturité", Percent: true},
	{Label: "YTM", Percent: true},
}

// CarmignacStrategy reads the yield straight off the fund's public web
// page. There is no document to authenticate, so the recorded period is
// the requested one: the page always shows the latest published month.
type CarmignacStrategy struct {
	browser browse.Browser
	docs    *docstore.Store
	matcher *Matcher
	log     *logrus.Logger
}

func NewCarmignacStrategy(browser browse.Browser, docs *docstore.Store, log *logrus.Logger) *CarmignacStrategy {
	return &CarmignacStrategy{
		browser: browser,
		docs:    docs,
		matcher: NewMatcher(carmignacCandidates...),
		log:     log,
	}
}

func (s *CarmignacStrategy) Provider() model.Provider {
	return model.ProviderCarmignac
}

func (s *CarmignacStrategy) Extract(ctx context.Context, fund model.Fund, target period.Month) (model.Observation, error) {
	page, err := s.browser.Open(ctx, fund.URL)
	if err != nil {
		return model.Observation{}, err
	}

	match, err := s.matcher.FindValue(page.Text())
	if err != nil {
		// Label and value often sit in sibling nodes on these pages, so
		// a miss in the flat text is retried against the markup.
		match, err = s.matcher.FindValueInPage(page)
	}
	if err != nil {
		s.snapshotPage(fund, page)
		return model.Observation{}, err
	}

	s.log.WithFields(logrus.Fields{
		"fund":  fund.ID,
		"value": match.Value,
		"label": match.Label,
	}).Info("Extracted yield from page")

	return newObservation(fund, match.Value, target, model.SourceWeb, ""), nil
}

// snapshotPage keeps the rendered markup on disk when no value was
// found, so the miss can be diagnosed without re-crawling.
func (s *CarmignacStrategy) snapshotPage(fund model.Fund, page *browse.Page) {
	html, err := page.HTML()
	if err != nil {
		return
	}
	if _, err := s.docs.SaveDiagnostic(fund.ID, "html", []byte(html)); err != nil {
		s.log.WithFields(logrus.Fields{
			"fund":  fund.ID,
			"error": err.Error(),
		}).Warn("Failed to save page snapshot")
	}
}
