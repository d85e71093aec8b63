package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/extract"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/repository"
	"github.com/acastel/ytm-tracker/internal/service"
	"github.com/acastel/ytm-tracker/internal/testutil"
)

func allProvidersRegistry(value float64) *extract.Registry {
	return extract.NewRegistry(
		testutil.NewMockStrategy(model.ProviderCarmignac, value),
		testutil.NewMockStrategy(model.ProviderSycomore, value),
		testutil.NewMockStrategy(model.ProviderRothschild, value),
	)
}

// TestExtractionService_Run tests a full extraction pass over the fund
// registry.
//
// WHY: The run loop is the heart of the pipeline. This ensures every
// configured fund is attempted, results are persisted, and the summary
// accounts for each fund exactly once.
func TestExtractionService_Run(t *testing.T) {
	t.Run("extracts and stores one observation per fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())
		target := period.New(2025, time.October)

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{Period: target})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.Succeeded != 3 || summary.Skipped != 0 || summary.Failed != 0 {
			t.Errorf("Expected 3/0/0 succeeded/skipped/failed, got %d/%d/%d",
				summary.Succeeded, summary.Skipped, summary.Failed)
		}
		if len(summary.Results) != 3 {
			t.Errorf("Expected 3 results, got %d", len(summary.Results))
		}
		if summary.Target != target {
			t.Errorf("Expected target %s, got %s", target, summary.Target)
		}

		testutil.AssertRowCount(t, db, "observation", 3)

		stored, err := repository.NewObservationRepository(db).GetByPeriod(target)
		if err != nil {
			t.Fatalf("GetByPeriod() returned unexpected error: %v", err)
		}
		if len(stored) != 3 {
			t.Fatalf("Expected 3 stored observations, got %d", len(stored))
		}

		// Rows come back ordered by maturity year
		wantOrder := []string{"rothschild_2028", "carmignac_2029", "sycomore_2030"}
		for i, want := range wantOrder {
			if stored[i].FundID != want {
				t.Errorf("Expected fund %s at position %d, got %s", want, i, stored[i].FundID)
			}
		}
		for _, obs := range stored {
			if obs.YTMPercent != 3.50 {
				t.Errorf("Expected YTM 3.50 for %s, got %v", obs.FundID, obs.YTMPercent)
			}
		}
	})

	t.Run("defaults to the month before the current one", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())
		want := period.Of(time.Now()).Prev()

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Target != want {
			t.Errorf("Expected default target %s, got %s", want, summary.Target)
		}
	})

	t.Run("restricts the run to a single fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{
			Period: period.New(2025, time.October),
			FundID: "sycomore_2030",
		})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if len(summary.Results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(summary.Results))
		}
		if summary.Results[0].FundID != "sycomore_2030" {
			t.Errorf("Expected result for sycomore_2030, got %s", summary.Results[0].FundID)
		}
		testutil.AssertRowCount(t, db, "observation", 1)
	})

	t.Run("rejects an unknown fund id", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())

		// Execute
		_, err := svc.Run(context.Background(), service.RunOptions{FundID: "vanguard_2030"})

		// Assert
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("Expected ErrFundNotFound, got %v", err)
		}
	})
}

// TestExtractionService_Run_SkipAndForce tests idempotency of repeated runs.
//
// WHY: The scheduler retries the same month on every trigger. Without the
// existence check a retry would re-scrape sources that already succeeded;
// without force there would be no way to overwrite a bad value.
func TestExtractionService_Run_SkipAndForce(t *testing.T) {
	t.Run("skips funds already recorded for the period", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		target := period.New(2025, time.October)
		existing := testutil.NewObservation().
			WithFund(testutil.TestFunds()[0]).
			WithPeriod(target).
			WithValue(4.60).
			Build(t, db)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{Period: target})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 2 || summary.Skipped != 1 || summary.Failed != 0 {
			t.Errorf("Expected 2/1/0 succeeded/skipped/failed, got %d/%d/%d",
				summary.Succeeded, summary.Skipped, summary.Failed)
		}
		testutil.AssertRowCount(t, db, "observation", 3)

		// The stored value must be untouched by the skipped attempt
		history, err := repository.NewObservationRepository(db).GetFundHistory(existing.FundID, period.Month{}, period.Month{})
		if err != nil {
			t.Fatalf("GetFundHistory() returned unexpected error: %v", err)
		}
		if len(history) != 1 || history[0].YTMPercent != 4.60 {
			t.Errorf("Expected untouched observation with YTM 4.60, got %+v", history)
		}
	})

	t.Run("force overwrites the stored value in place", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		target := period.New(2025, time.October)
		existing := testutil.NewObservation().
			WithFund(testutil.TestFunds()[0]).
			WithPeriod(target).
			WithValue(4.60).
			Build(t, db)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(4.75), testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{
			Period: target,
			FundID: existing.FundID,
			Force:  true,
		})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 1 {
			t.Errorf("Expected 1 success, got %d", summary.Succeeded)
		}
		testutil.AssertRowCount(t, db, "observation", 1)

		history, err := repository.NewObservationRepository(db).GetFundHistory(existing.FundID, period.Month{}, period.Month{})
		if err != nil {
			t.Fatalf("GetFundHistory() returned unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("Expected 1 observation after forced rerun, got %d", len(history))
		}
		if history[0].YTMPercent != 4.75 {
			t.Errorf("Expected overwritten YTM 4.75, got %v", history[0].YTMPercent)
		}
		if history[0].ID != existing.ID {
			t.Errorf("Expected stable row id %s after overwrite, got %s", existing.ID, history[0].ID)
		}
	})
}

// TestExtractionService_Run_DryRun tests that dry runs persist nothing.
//
// WHY: Dry runs exist to check sources without touching stored history;
// a single accidental write would defeat that.
func TestExtractionService_Run_DryRun(t *testing.T) {
	t.Run("reports results without storing observations", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{
			Period: period.New(2025, time.October),
			DryRun: true,
		})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 3 {
			t.Errorf("Expected 3 successes, got %d", summary.Succeeded)
		}
		testutil.AssertRowCount(t, db, "observation", 0)
	})
}

// TestExtractionService_Run_Failures tests isolation of per-fund failures.
//
// WHY: One provider changing its page layout must not cost the month's
// values for the other providers. Only storage loss and cancellation are
// allowed to abort a run.
func TestExtractionService_Run_Failures(t *testing.T) {
	t.Run("a failing fund does not stop the others", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		registry := extract.NewRegistry(
			testutil.NewMockStrategy(model.ProviderCarmignac, 3.50),
			testutil.NewMockStrategy(model.ProviderSycomore, 0).WithError(apperrors.ErrValueNotFound),
			testutil.NewMockStrategy(model.ProviderRothschild, 2.85),
		)
		svc := testutil.NewTestExtractionService(t, db, registry, testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{Period: period.New(2025, time.October)})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 2 || summary.Failed != 1 {
			t.Errorf("Expected 2 successes and 1 failure, got %d/%d", summary.Succeeded, summary.Failed)
		}
		testutil.AssertRowCount(t, db, "observation", 2)

		for _, result := range summary.Results {
			if result.FundID != "sycomore_2030" {
				continue
			}
			if result.Status != model.RunFailed {
				t.Errorf("Expected failed status for sycomore_2030, got %s", result.Status)
			}
			if result.Error == "" {
				t.Error("Expected failure reason on the result, got empty string")
			}
		}
	})

	t.Run("a fund without a registered strategy fails alone", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		registry := extract.NewRegistry(
			testutil.NewMockStrategy(model.ProviderCarmignac, 3.50),
			testutil.NewMockStrategy(model.ProviderSycomore, 4.90),
		)
		svc := testutil.NewTestExtractionService(t, db, registry, testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{Period: period.New(2025, time.October)})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 2 || summary.Failed != 1 {
			t.Errorf("Expected 2 successes and 1 failure, got %d/%d", summary.Succeeded, summary.Failed)
		}
	})

	t.Run("storage failure aborts the run", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())
		db.Close()

		// Execute
		_, err := svc.Run(context.Background(), service.RunOptions{Period: period.New(2025, time.October)})

		// Assert
		if !errors.Is(err, apperrors.ErrStorageUnavailable) {
			t.Errorf("Expected ErrStorageUnavailable, got %v", err)
		}
	})

	t.Run("cancelled context aborts before the next fund", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestExtractionService(t, db, allProvidersRegistry(3.50), testutil.TestFunds())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Execute
		summary, err := svc.Run(ctx, service.RunOptions{Period: period.New(2025, time.October)})

		// Assert
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
		if len(summary.Results) != 0 {
			t.Errorf("Expected no results after immediate cancellation, got %d", len(summary.Results))
		}
		testutil.AssertRowCount(t, db, "observation", 0)
	})
}

// TestExtractionService_Run_RepointedPeriod tests that the stored month
// follows the document, not the request.
//
// WHY: Factsheets dated the last day of a month report that month even
// when the run asked for the next one. Storing the requested month would
// duplicate values across adjacent months.
func TestExtractionService_Run_RepointedPeriod(t *testing.T) {
	t.Run("stores the month the document reports", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		registry := extract.NewRegistry(
			testutil.NewMockStrategy(model.ProviderSycomore, 4.90).
				WithReportedPeriod(func(target period.Month) period.Month { return target.Prev() }),
		)
		svc := testutil.NewTestExtractionService(t, db, registry, testutil.TestFunds())

		// Execute
		summary, err := svc.Run(context.Background(), service.RunOptions{
			Period: period.New(2025, time.November),
			FundID: "sycomore_2030",
		})

		// Assert
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Succeeded != 1 {
			t.Fatalf("Expected 1 success, got %d", summary.Succeeded)
		}

		wantPeriod := period.New(2025, time.October)
		if summary.Results[0].Period != wantPeriod {
			t.Errorf("Expected result period %s, got %s", wantPeriod, summary.Results[0].Period)
		}

		stored, err := repository.NewObservationRepository(db).GetByPeriod(wantPeriod)
		if err != nil {
			t.Fatalf("GetByPeriod() returned unexpected error: %v", err)
		}
		if len(stored) != 1 {
			t.Errorf("Expected the observation under %s, got %d rows", wantPeriod, len(stored))
		}
	})
}
