package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
)

// ObservationRepository provides data access methods for the observation table.
// It handles storing extracted YTM figures and retrieving them for the API
// and dashboard views.
type ObservationRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewObservationRepository creates a new ObservationRepository with the provided database connection.
func NewObservationRepository(db *sql.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

func (r *ObservationRepository) WithTx(tx *sql.Tx) *ObservationRepository {
	return &ObservationRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ObservationRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Upsert stores an observation, replacing any existing value for the same
// fund and report period. Re-running an extraction for a month that is
// already recorded overwrites the row in place; the row id is kept stable.
func (r *ObservationRepository) Upsert(ctx context.Context, obs model.Observation) (model.Observation, error) {
	if obs.ID == "" {
		obs.ID = uuid.New().String()
	}
	if obs.ExtractedAt.IsZero() {
		obs.ExtractedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO observation (
            id, fund_id, isin, fund_name, provider, fund_url,
            maturity_year, ytm_percent, report_period,
            source_type, source_document, extracted_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (fund_id, report_period) DO UPDATE SET
            isin = excluded.isin,
            fund_name = excluded.fund_name,
            provider = excluded.provider,
            fund_url = excluded.fund_url,
            maturity_year = excluded.maturity_year,
            ytm_percent = excluded.ytm_percent,
            source_type = excluded.source_type,
            source_document = excluded.source_document,
            extracted_at = excluded.extracted_at
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		obs.ID,
		obs.FundID,
		obs.Isin,
		obs.FundName,
		string(obs.Provider),
		obs.FundURL,
		obs.MaturityYear,
		obs.YTMPercent,
		obs.ReportPeriod.DateString(),
		string(obs.Source),
		obs.SourceDocument,
		obs.ExtractedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return model.Observation{}, fmt.Errorf("failed to upsert observation: %w", err)
	}

	return obs, nil
}

// Exists reports whether an observation is already recorded for the given
// fund and report period.
func (r *ObservationRepository) Exists(ctx context.Context, fundID string, p period.Month) (bool, error) {
	query := `
        SELECT COUNT(*)
        FROM observation
        WHERE fund_id = ? AND report_period = ?
    `

	var count int
	err := r.getQuerier().QueryRowContext(ctx, query, fundID, p.DateString()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing observation: %w", err)
	}

	return count > 0, nil
}

// GetLatestPerFund retrieves the most recent observation for each fund,
// ordered by maturity year then fund name.
func (r *ObservationRepository) GetLatestPerFund() ([]model.Observation, error) {
	query := `
        SELECT o.id, o.fund_id, o.isin, o.fund_name, o.provider, o.fund_url,
               o.maturity_year, o.ytm_percent, o.report_period,
               o.source_type, o.source_document, o.extracted_at
        FROM observation o
        INNER JOIN (
            SELECT fund_id, MAX(report_period) as latest_period
            FROM observation
            GROUP BY fund_id
        ) latest ON o.fund_id = latest.fund_id AND o.report_period = latest.latest_period
        ORDER BY o.maturity_year ASC, o.fund_name ASC
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observation table: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetByPeriod retrieves all observations recorded for one report month,
// ordered by maturity year then fund name.
func (r *ObservationRepository) GetByPeriod(p period.Month) ([]model.Observation, error) {
	query := `
        SELECT id, fund_id, isin, fund_name, provider, fund_url,
               maturity_year, ytm_percent, report_period,
               source_type, source_document, extracted_at
        FROM observation
        WHERE report_period = ?
        ORDER BY maturity_year ASC, fund_name ASC
    `

	rows, err := r.db.Query(query, p.DateString())
	if err != nil {
		return nil, fmt.Errorf("failed to query observation table: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetFundHistory retrieves observations for one fund, newest first. A
// non-zero from or to month narrows the result to that period range.
func (r *ObservationRepository) GetFundHistory(fundID string, from, to period.Month) ([]model.Observation, error) {
	query := `
        SELECT id, fund_id, isin, fund_name, provider, fund_url,
               maturity_year, ytm_percent, report_period,
               source_type, source_document, extracted_at
        FROM observation
        WHERE fund_id = ?
    `
	args := []any{fundID}

	if !from.IsZero() {
		query += " AND report_period >= ?"
		args = append(args, from.DateString())
	}
	if !to.IsZero() {
		query += " AND report_period <= ?"
		args = append(args, to.DateString())
	}
	query += " ORDER BY report_period DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query observation table: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetAll retrieves every stored observation, newest period first.
func (r *ObservationRepository) GetAll() ([]model.Observation, error) {
	query := `
        SELECT id, fund_id, isin, fund_name, provider, fund_url,
               maturity_year, ytm_percent, report_period,
               source_type, source_document, extracted_at
        FROM observation
        ORDER BY report_period DESC, maturity_year ASC
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observation table: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// GetPeriods retrieves every distinct report month that has at least one
// observation, newest first.
func (r *ObservationRepository) GetPeriods() ([]period.Month, error) {
	query := `
        SELECT DISTINCT report_period
        FROM observation
        ORDER BY report_period DESC
    `

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observation table: %w", err)
	}
	defer rows.Close()

	periods := []period.Month{}
	for rows.Next() {
		var str string
		if err := rows.Scan(&str); err != nil {
			return nil, fmt.Errorf("failed to scan report period: %w", err)
		}
		p, err := period.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("failed to parse report period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observation table: %w", err)
	}

	return periods, nil
}

// parseTime accepts the two timestamp forms found in stored rows: bare
// dates written by early imports and the RFC3339 values Upsert writes.
func parseTime(str string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return t.UTC(), nil
}

func scanObservations(rows *sql.Rows) ([]model.Observation, error) {
	observations := []model.Observation{}

	for rows.Next() {
		var o model.Observation
		var isin, sourceType, sourceDocument sql.NullString
		var periodStr, extractedStr string

		err := rows.Scan(
			&o.ID,
			&o.FundID,
			&isin,
			&o.FundName,
			&o.Provider,
			&o.FundURL,
			&o.MaturityYear,
			&o.YTMPercent,
			&periodStr,
			&sourceType,
			&sourceDocument,
			&extractedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation table results: %w", err)
		}

		o.ReportPeriod, err = period.Parse(periodStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse report period: %w", err)
		}
		o.ExtractedAt, err = parseTime(extractedStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse extraction time: %w", err)
		}

		if isin.Valid {
			o.Isin = isin.String
		}
		if sourceType.Valid {
			o.Source = model.SourceKind(sourceType.String)
		}
		if sourceDocument.Valid {
			o.SourceDocument = sourceDocument.String
		}

		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observation table: %w", err)
	}

	return observations, nil
}
