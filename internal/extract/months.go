package extract

import "time"

// Reports name their month in the page language, sometimes with the
// English name alongside. Matching folds accents, so "février" also
// covers the unaccented "fevrier" seen in some PDF text layers.
var monthNames = map[time.Month][]string{
	time.January:   {"janvier", "january"},
	time.February:  {"février", "february"},
	time.March:     {"mars", "march"},
	time.April:     {"avril", "april"},
	time.May:       {"mai", "may"},
	time.June:      {"juin", "june"},
	time.July:      {"juillet", "july"},
	time.August:    {"août", "august"},
	time.September: {"septembre", "september"},
	time.October:   {"octobre", "october"},
	time.November:  {"novembre", "november"},
	time.December:  {"décembre", "december"},
}
