package testutil

import (
	"database/sql"
	"io"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/extract"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/repository"
	"github.com/acastel/ytm-tracker/internal/service"
)

// TestFunds returns a small fund registry covering one fund per provider,
// mirroring the shape of the embedded production configuration.
func TestFunds() []model.Fund {
	return []model.Fund{
		{
			ID:           "carmignac_2029",
			Name:         "Carmignac Crédit 2029",
			Isin:         "FR001400KAV4",
			Provider:     model.ProviderCarmignac,
			MaturityYear: 2029,
			URL:          "https://www.carmignac.com/funds/credit-2029",
			Source:       model.SourceWeb,
		},
		{
			ID:           "sycomore_2030",
			Name:         "Sycoyield 2030",
			Isin:         "FR001400MCQ6",
			Provider:     model.ProviderSycomore,
			MaturityYear: 2030,
			URL:          "https://www.sycomore-am.com/fonds/sycoyield-2030",
			Source:       model.SourcePDF,
		},
		{
			ID:           "rothschild_2028",
			Name:         "R-co Target 2028 IG",
			Isin:         "FR001400BU49",
			Provider:     model.ProviderRothschild,
			MaturityYear: 2028,
			URL:          "https://am.eu.rothschildandco.com/fr/nos-fonds/r-co-target-2028-ig/",
			Source:       model.SourcePDF,
		},
	}
}

func NewTestObservationService(t *testing.T, db *sql.DB) *service.ObservationService {
	t.Helper()

	observationRepo := repository.NewObservationRepository(db)

	return service.NewObservationService(
		observationRepo,
		TestFunds(),
	)
}

// NewTestExtractionService creates an ExtractionService backed by the given
// strategy registry and fund list. Tests supply stub strategies so no
// network access happens.
func NewTestExtractionService(t *testing.T, db *sql.DB, registry *extract.Registry, funds []model.Fund) *service.ExtractionService {
	t.Helper()

	observationRepo := repository.NewObservationRepository(db)
	log := logrus.New()
	log.SetOutput(io.Discard)

	return service.NewExtractionService(
		observationRepo,
		registry,
		funds,
		log,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("FR")
//	// Returns: "FR1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "FR"
	}
	return prefix + randomAlphanumeric(10)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Target Fund")
//	// Returns: "Target Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
