package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/period"
)

// Markers of document classes that sit next to the monthly report in
// provider download lists and must never be mistaken for it. Compared
// against folded text.
var unwantedDocumentMarkers = []string{
	"document d'informations cles",
	"document d'information cle",
	"key investor information document",
	"kiid",
}

// isinToken matches "ISIN: FR001400KAV4" and similar. Runs against the
// raw text: ISINs are uppercase by definition.
var isinToken = regexp.MustCompile(`ISIN[:\s]+([A-Z]{2}[A-Z0-9]{10})`)

// documentDate matches an explicitly labelled full date, like the
// "au 31/10/2025" or "Monthly Factsheet - 31/10/2025" headers
// factsheets carry. Unlabelled dates are ignored: maturity schedules
// are full of them.
var documentDate = regexp.MustCompile(`\b(?:au|as of|date|monthly factsheet\s*-|reporting mensuel\s*-)[:\s]*(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})`)

// DocumentChecks carries what a downloaded report must prove about
// itself before its figures are trusted.
type DocumentChecks struct {
	FundName string

	// NameAlias is a provider-specific substring accepted in place of
	// the full fund name, e.g. "Sycoyield" on reports that drop the
	// vintage year from the title.
	NameAlias string

	// Isin, when set, must match any ISIN printed in the document.
	// Documents that print no ISIN at all pass: several monthly report
	// layouts omit it.
	Isin string
}

// AuthenticateDocument verifies that a downloaded document is the right
// kind of document, about the right fund, and about the right month, in
// that order. The cheapest, highest-signal check runs first so the
// failure reason is as specific as possible.
//
// The returned month is the period the document actually describes. It
// is usually the target, but a document dated the last day of the month
// before the target is accepted and re-pointed to that month, since
// factsheets published early in a month describe the previous month's
// close.
func AuthenticateDocument(text string, checks DocumentChecks, target period.Month) (period.Month, error) {
	// Curly apostrophes fold to themselves, so normalize them before
	// comparing against the marker list.
	folded := strings.ReplaceAll(Fold(text), "’", "'")

	for _, marker := range unwantedDocumentMarkers {
		if strings.Contains(folded, marker) {
			return period.Month{}, fmt.Errorf("%w: document matches marker %q", apperrors.ErrWrongDocumentType, marker)
		}
	}

	if checks.Isin != "" {
		if m := isinToken.FindStringSubmatch(text); m != nil && m[1] != checks.Isin {
			return period.Month{}, fmt.Errorf("%w: document is for ISIN %s, expected %s", apperrors.ErrIdentityMismatch, m[1], checks.Isin)
		}
	}

	if !containsName(folded, checks) {
		return period.Month{}, fmt.Errorf("%w: fund name %q not found in document", apperrors.ErrIdentityMismatch, checks.FundName)
	}

	return verifyPeriod(folded, target)
}

func containsName(folded string, checks DocumentChecks) bool {
	if strings.Contains(folded, Fold(checks.FundName)) {
		return true
	}
	return checks.NameAlias != "" && strings.Contains(folded, Fold(checks.NameAlias))
}

// verifyPeriod confirms the document describes the target month. A
// labelled full date in the target month is the strongest acceptance
// signal; a date on the last day of the month before the target is
// accepted too and re-points the period. Labelled dates elsewhere
// (maturity lines like "jusqu'au 31/12/2028") must not reject a
// document on their own, so the month-name fallback runs before any
// mismatch is declared.
func verifyPeriod(folded string, target period.Month) (period.Month, error) {
	dates := labelledDates(folded)
	for _, d := range dates {
		if period.Of(d) == target {
			return target, nil
		}
	}
	for _, d := range dates {
		documented := period.Of(d)
		if documented == target.Prev() && d.Day() == documented.LastDay().Day() {
			return documented, nil
		}
	}

	for _, name := range monthNames[target.Month()] {
		if strings.Contains(folded, Fold(name)) {
			return target, nil
		}
	}

	if len(dates) > 0 {
		return period.Month{}, fmt.Errorf("%w: document dated %s, expected %s", apperrors.ErrPeriodMismatch, dates[0].Format("02/01/2006"), target)
	}
	return period.Month{}, fmt.Errorf("%w: document does not mention %s %d", apperrors.ErrPeriodMismatch, monthNames[target.Month()][0], target.Year())
}

func labelledDates(folded string) []time.Time {
	var dates []time.Time
	for _, m := range documentDate.FindAllStringSubmatch(folded, -1) {
		if d, ok := parseDayMonthYear(m[1], m[2], m[3]); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

func parseDayMonthYear(d, m, y string) (time.Time, bool) {
	day, _ := strconv.Atoi(d)
	month, _ := strconv.Atoi(m)
	year, _ := strconv.Atoi(y)

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}
	return date, true
}
