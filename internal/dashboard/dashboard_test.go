package dashboard_test

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/dashboard"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/testutil"
)

func newGenerator(t *testing.T, db *sql.DB, outDir string) *dashboard.Generator {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	return dashboard.NewGenerator(testutil.NewTestObservationService(t, db), outDir, dashboard.DefaultColors(), log)
}

func readPage(t *testing.T, dir, name string) string {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(raw)
}

// TestGenerator_GenerateAll tests a full generation pass over a seeded
// store: one page per recorded month plus the latest-values index.
func TestGenerator_GenerateAll(t *testing.T) {
	t.Run("writes one page per month plus the index", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		funds := testutil.TestFunds()
		testutil.NewObservation().
			WithPeriod(period.New(2025, time.September)).
			WithValue(4.40).
			Build(t, db)
		testutil.NewObservation().
			WithPeriod(period.New(2025, time.October)).
			WithValue(4.60).
			Build(t, db)
		testutil.NewObservation().
			WithFund(funds[1]).
			WithPeriod(period.New(2025, time.October)).
			WithValue(5.10).
			Build(t, db)

		outDir := t.TempDir()
		gen := newGenerator(t, db, outDir)

		// Execute
		files, err := gen.GenerateAll()

		// Assert
		if err != nil {
			t.Fatalf("GenerateAll() returned unexpected error: %v", err)
		}
		want := []string{"october_2025.html", "september_2025.html", "index.html"}
		if len(files) != len(want) {
			t.Fatalf("Expected %d files, got %d: %v", len(want), len(files), files)
		}
		for i, name := range want {
			if files[i] != name {
				t.Errorf("Expected file %d to be %q, got %q", i, name, files[i])
			}
			if _, statErr := os.Stat(filepath.Join(outDir, name)); statErr != nil {
				t.Errorf("Expected %s on disk: %v", name, statErr)
			}
		}

		index := readPage(t, outDir, "index.html")
		if !strings.Contains(index, "<title>YTM Dashboard - Latest</title>") {
			t.Error("Expected index page to be titled as the latest dashboard")
		}
		if !strings.Contains(index, "Carmignac Crédit 2029") {
			t.Error("Expected index page to list the fund name")
		}
		if !strings.Contains(index, "4.60%") {
			t.Error("Expected index page to show the latest October value")
		}
		if strings.Contains(index, "4.40%") {
			t.Error("Expected index page to omit the superseded September value")
		}
		if !strings.Contains(index, "#FF6B6B") {
			t.Error("Expected index page to carry the carmignac badge color")
		}
		if !strings.Contains(index, "📅 Historical Dashboards") {
			t.Error("Expected index page to show month navigation for two recorded months")
		}

		september := readPage(t, outDir, "september_2025.html")
		if !strings.Contains(september, "<title>YTM Dashboard - September 2025</title>") {
			t.Error("Expected month page title to name its month")
		}
		if !strings.Contains(september, `class="month-link active">September 2025</a>`) {
			t.Error("Expected month page to highlight its own navigation link")
		}
		if strings.Contains(september, "5.10%") {
			t.Error("Expected September page to exclude October observations")
		}
	})

	t.Run("orders navigation links oldest to newest", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.NewObservation().
			WithPeriod(period.New(2025, time.August)).
			Build(t, db)
		testutil.NewObservation().
			WithPeriod(period.New(2025, time.October)).
			Build(t, db)

		outDir := t.TempDir()
		gen := newGenerator(t, db, outDir)

		// Execute
		if _, err := gen.GenerateAll(); err != nil {
			t.Fatalf("GenerateAll() returned unexpected error: %v", err)
		}

		// Assert
		index := readPage(t, outDir, "index.html")
		augustAt := strings.Index(index, "august_2025.html")
		octoberAt := strings.Index(index, "october_2025.html")
		if augustAt == -1 || octoberAt == -1 {
			t.Fatal("Expected navigation links for both recorded months")
		}
		if augustAt > octoberAt {
			t.Error("Expected August link before October link")
		}
	})

	t.Run("hides month navigation with a single recorded month", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.NewObservation().Build(t, db)

		outDir := t.TempDir()
		gen := newGenerator(t, db, outDir)

		// Execute
		files, err := gen.GenerateAll()

		// Assert
		if err != nil {
			t.Fatalf("GenerateAll() returned unexpected error: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("Expected month page plus index, got %v", files)
		}
		index := readPage(t, outDir, "index.html")
		if strings.Contains(index, "Historical Dashboards") {
			t.Error("Expected navigation to be hidden with one recorded month")
		}
	})

	t.Run("falls back to a neutral badge color for unknown providers", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		testutil.NewObservation().
			WithFundID("axa_2026").
			WithFundName("AXA IM Euro 2026").
			WithProvider(model.Provider("axa")).
			Build(t, db)

		outDir := t.TempDir()
		gen := newGenerator(t, db, outDir)

		// Execute
		if _, err := gen.GenerateAll(); err != nil {
			t.Fatalf("GenerateAll() returned unexpected error: %v", err)
		}

		// Assert
		index := readPage(t, outDir, "index.html")
		if !strings.Contains(index, "#999999") {
			t.Error("Expected unknown provider to use the fallback color")
		}
		if !strings.Contains(index, "Axa") {
			t.Error("Expected provider label to be title-cased")
		}
	})

	t.Run("fails when nothing is recorded", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		gen := newGenerator(t, db, t.TempDir())

		// Execute
		files, err := gen.GenerateAll()

		// Assert
		if err == nil {
			t.Fatal("Expected error for an empty store, got nil")
		}
		if len(files) != 0 {
			t.Errorf("Expected no files written, got %v", files)
		}
	})
}
