package request

import (
	"fmt"

	"github.com/acastel/ytm-tracker/internal/period"
)

// HistoryFilters narrows a fund history query to a period range.
// A zero bound leaves that side of the range open.
type HistoryFilters struct {
	From period.Month
	To   period.Month
}

// ParseHistoryFilters extracts and validates the optional period bounds of a
// history query. Both parameters accept the "2006-01" month form; blank
// parameters are skipped.
//
// Returns an error if a bound does not parse or if the range is inverted.
func ParseHistoryFilters(fromParam, toParam string) (HistoryFilters, error) {
	var filters HistoryFilters

	if fromParam != "" {
		from, err := period.Parse(fromParam)
		if err != nil {
			return HistoryFilters{}, fmt.Errorf("invalid from period: %w", err)
		}
		filters.From = from
	}

	if toParam != "" {
		to, err := period.Parse(toParam)
		if err != nil {
			return HistoryFilters{}, fmt.Errorf("invalid to period: %w", err)
		}
		filters.To = to
	}

	if !filters.From.IsZero() && !filters.To.IsZero() && filters.To.Before(filters.From) {
		return HistoryFilters{}, fmt.Errorf("invalid period range: from %s is after to %s", filters.From, filters.To)
	}

	return filters, nil
}
