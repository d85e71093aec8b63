package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acastel/ytm-tracker/internal/api/handlers"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/testutil"
)

func TestObservationHandler_Latest(t *testing.T) {
	t.Run("returns the newest observation per fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))
		fund := testutil.TestFunds()[0]

		testutil.NewObservation().WithFund(fund).
			WithPeriod(period.New(2025, time.September)).WithValue(4.40).Build(t, db)
		testutil.NewObservation().WithFund(fund).
			WithPeriod(period.New(2025, time.October)).WithValue(4.60).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/observations/latest", nil)
		w := httptest.NewRecorder()

		handler.Latest(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []handlers.ObservationResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(response) != 1 {
			t.Fatalf("Expected 1 observation, got %d", len(response))
		}
		if response[0].ReportPeriod != period.New(2025, time.October) {
			t.Errorf("Expected the October observation, got %s", response[0].ReportPeriod)
		}
	})
}

func TestObservationHandler_ByPeriod(t *testing.T) {
	t.Run("returns observations for the requested month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))
		funds := testutil.TestFunds()

		testutil.NewObservation().WithFund(funds[0]).
			WithPeriod(period.New(2025, time.October)).WithValue(4.60).Build(t, db)
		testutil.NewObservation().WithFund(funds[1]).
			WithPeriod(period.New(2025, time.September)).WithValue(4.80).Build(t, db)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/observations",
			map[string]string{"period": "2025-10"},
		)
		w := httptest.NewRecorder()

		handler.ByPeriod(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []handlers.ObservationResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(response) != 1 {
			t.Fatalf("Expected 1 observation for October, got %d", len(response))
		}
		if response[0].FundID != "carmignac_2029" {
			t.Errorf("Expected carmignac_2029, got %s", response[0].FundID)
		}
	})

	t.Run("returns 400 when the period parameter is missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/observations", nil)
		w := httptest.NewRecorder()

		handler.ByPeriod(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/observations",
			map[string]string{"period": "October 2025"},
		)
		w := httptest.NewRecorder()

		handler.ByPeriod(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestObservationHandler_Periods(t *testing.T) {
	t.Run("returns recorded months newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))
		fund := testutil.TestFunds()[0]

		testutil.NewObservation().WithFund(fund).
			WithPeriod(period.New(2025, time.August)).Build(t, db)
		testutil.NewObservation().WithFund(fund).
			WithPeriod(period.New(2025, time.October)).Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/observations/periods", nil)
		w := httptest.NewRecorder()

		handler.Periods(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []string
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		want := []string{"2025-10", "2025-08"}
		if len(response) != len(want) {
			t.Fatalf("Expected %d periods, got %d", len(want), len(response))
		}
		for i := range want {
			if response[i] != want[i] {
				t.Errorf("Expected period %s at position %d, got %s", want[i], i, response[i])
			}
		}
	})
}

func TestObservationHandler_Import(t *testing.T) {
	importBody := func(t *testing.T, body map[string]any) *bytes.Buffer {
		t.Helper()
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		return bytes.NewBuffer(raw)
	}

	t.Run("records a manual observation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		body := importBody(t, map[string]any{
			"fund_id":         "carmignac_2029",
			"report_period":   "2025-07",
			"ytm_percent":     4.20,
			"source_document": "archive/july.pdf",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", body)
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response handlers.ImportObservationResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if !response.Imported {
			t.Error("Expected imported=true")
		}
		if response.Observation == nil {
			t.Fatal("Expected the stored observation in the response")
		}
		if response.Observation.Source != "manual" {
			t.Errorf("Expected manual source, got %s", response.Observation.Source)
		}
		testutil.AssertRowCount(t, db, "observation", 1)
	})

	t.Run("reports an already recorded period without writing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))
		fund := testutil.TestFunds()[0]
		testutil.NewObservation().WithFund(fund).
			WithPeriod(period.New(2025, time.July)).WithValue(4.60).Build(t, db)

		body := importBody(t, map[string]any{
			"fund_id":       fund.ID,
			"report_period": "2025-07",
			"ytm_percent":   9.99,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", body)
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response handlers.ImportObservationResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if response.Imported {
			t.Error("Expected imported=false for an existing period")
		}
		testutil.AssertRowCount(t, db, "observation", 1)
	})

	t.Run("returns 400 when validation fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		body := importBody(t, map[string]any{
			"fund_id":       "carmignac_2029",
			"report_period": "2025-07",
			"ytm_percent":   -1.0,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", body)
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for an unknown fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))

		body := importBody(t, map[string]any{
			"fund_id":       "vanguard_2030",
			"report_period": "2025-07",
			"ytm_percent":   4.20,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", body)
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 503 when storage is unreachable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewObservationHandler(testutil.NewTestObservationService(t, db))
		db.Close()

		body := importBody(t, map[string]any{
			"fund_id":       "carmignac_2029",
			"report_period": "2025-07",
			"ytm_percent":   4.20,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/observations/import", body)
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}
