package extract_test

import (
	"errors"
	"testing"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/extract"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  float64
	}{
		{"comma separator", "4,60", 4.60},
		{"period separator", "4.60", 4.60},
		{"no decimals", "5", 5.0},
		{"two digit integer part", "12,5", 12.5},
		{"surrounding space", " 3,06 ", 3.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ParseDecimal(tt.token)
			if err != nil {
				t.Fatalf("ParseDecimal(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimal(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseDecimalMalformed(t *testing.T) {
	tokens := []string{"4,6,0", "4.6.0", "abc", "", "4,6%", "1e5"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := extract.ParseDecimal(token)
			if !errors.Is(err, apperrors.ErrMalformedNumber) {
				t.Errorf("ParseDecimal(%q) error = %v, want ErrMalformedNumber", token, err)
			}
		})
	}
}
