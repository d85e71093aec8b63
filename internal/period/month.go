// Package period provides the calendar month type used to key YTM
// observations. Factsheets and provider pages publish one figure per month,
// so the month is the finest granularity the rest of the system works with.
package period

import (
	"encoding/json"
	"fmt"
	"time"
)

// KeyFormat is the human-facing month format, e.g. "2025-11".
const KeyFormat = "2006-01"

// DateFormat is the ISO-8601 date format used to persist month boundaries.
const DateFormat = "2006-01-02"

// Month represents a calendar month with no finer granularity.
type Month struct {
	y int
	m time.Month
}

// New returns a normalized Month for the given year and month.
func New(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{y: t.Year(), m: t.Month()}
}

// Of returns the Month containing t.
func Of(t time.Time) Month { return New(t.Year(), t.Month()) }

// Parse parses a Month from a string. It accepts both the "2025-11" key form
// and a full date such as "2025-11-01", in which case the day is discarded.
func Parse(str string) (Month, error) {
	if t, err := time.Parse(KeyFormat, str); err == nil {
		return Of(t), nil
	}
	t, err := time.Parse(DateFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, KeyFormat, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Month {
	m, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Year returns the calendar year.
func (p Month) Year() int { return p.y }

// Month returns the month of the year.
func (p Month) Month() time.Month { return p.m }

// Date returns the first day of the month at midnight UTC.
func (p Month) Date() time.Time { return time.Date(p.y, p.m, 1, 0, 0, 0, 0, time.UTC) }

// LastDay returns the last calendar day of the month at midnight UTC.
func (p Month) LastDay() time.Time { return p.Next().Date().AddDate(0, 0, -1) }

// Prev returns the previous calendar month.
func (p Month) Prev() Month { return Of(p.Date().AddDate(0, -1, 0)) }

// Next returns the following calendar month.
func (p Month) Next() Month { return Of(p.Date().AddDate(0, 1, 0)) }

// Before reports whether p is strictly before x.
func (p Month) Before(x Month) bool { return p.Date().Before(x.Date()) }

// After reports whether p is strictly after x.
func (p Month) After(x Month) bool { return p.Date().After(x.Date()) }

// IsZero reports whether p is the zero Month.
func (p Month) IsZero() bool { return p.y == 0 && p.m == 0 }

// String formats the month in its standard "2006-01" form.
func (p Month) String() string { return p.Date().Format(KeyFormat) }

// DateString formats the first day of the month as an ISO-8601 date, the
// form report periods are persisted in.
func (p Month) DateString() string { return p.Date().Format(DateFormat) }

// MarshalJSON encodes the month as its "2006-01" string form.
func (p Month) MarshalJSON() ([]byte, error) {
	str := p.String()
	return json.Marshal(&str)
}

// UnmarshalJSON decodes a month from either of the accepted string forms.
func (p *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	m, err := Parse(str)
	if err != nil {
		return err
	}
	*p = m
	return nil
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)
