// Package validation checks caller-supplied request data before it
// reaches the service layer.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Common validation errors
var (
	ErrInvalidFundID = fmt.Errorf("invalid fund id format")
)

// Fund ids are registry slugs like "carmignac_2029", matching the fund
// registry schema.
var fundIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// ValidateFundID checks that a fund id has the registry slug form.
func ValidateFundID(id string) error {
	if !fundIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidFundID, id)
	}
	return nil
}

// Error carries field-keyed validation messages so API clients can map
// failures back onto their inputs.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
