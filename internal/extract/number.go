// Package extract locates yield-to-maturity figures in provider pages
// and factsheets, and verifies that a downloaded document describes the
// fund and month it is supposed to.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/acastel/ytm-tracker/internal/apperrors"
)

var decimalToken = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// ParseDecimal converts a numeric token to a float, accepting either a
// comma or a period as the decimal separator. French pages print
// "4,60" where English ones print "4.60".
func ParseDecimal(token string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(token), ",", ".")
	if !decimalToken.MatchString(normalized) {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrMalformedNumber, token)
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrMalformedNumber, token)
	}
	return value, nil
}
