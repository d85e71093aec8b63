package service

import (
	"context"
	"fmt"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/repository"
)

// ObservationService handles read access to stored observations and
// manual imports. The fund registry comes from configuration, not the
// database, so fund lookups are answered from the in-memory list.
type ObservationService struct {
	repo  *repository.ObservationRepository
	funds []model.Fund
}

// NewObservationService creates a new ObservationService with the provided dependencies.
func NewObservationService(repo *repository.ObservationRepository, funds []model.Fund) *ObservationService {
	return &ObservationService{
		repo:  repo,
		funds: funds,
	}
}

// GetFunds returns the configured fund registry.
func (s *ObservationService) GetFunds() []model.Fund {
	return s.funds
}

// GetFund returns one configured fund by id.
func (s *ObservationService) GetFund(fundID string) (model.Fund, error) {
	for _, f := range s.funds {
		if f.ID == fundID {
			return f, nil
		}
	}
	return model.Fund{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, fundID)
}

// GetLatest retrieves the most recent observation for each fund.
func (s *ObservationService) GetLatest() ([]model.Observation, error) {
	return s.repo.GetLatestPerFund()
}

// GetByPeriod retrieves all observations for one report month.
func (s *ObservationService) GetByPeriod(p period.Month) ([]model.Observation, error) {
	return s.repo.GetByPeriod(p)
}

// GetPeriods retrieves every report month with at least one observation,
// newest first.
func (s *ObservationService) GetPeriods() ([]period.Month, error) {
	return s.repo.GetPeriods()
}

// GetHistory retrieves observations for one fund, newest first, optionally
// narrowed to a period range; a zero bound leaves that side open.
// Observations are denormalized, so a fund that has been removed from
// the registry keeps its history readable; only an id with neither
// configuration nor stored rows is an error.
func (s *ObservationService) GetHistory(fundID string, from, to period.Month) ([]model.Observation, error) {
	if fundID == "" {
		return nil, apperrors.ErrEmptyID
	}

	history, err := s.repo.GetFundHistory(fundID, from, to)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		if _, err := s.GetFund(fundID); err != nil {
			return nil, err
		}
	}
	return history, nil
}

// Import records a manually sourced observation for a configured fund.
// Existing values are left untouched: backfills must never overwrite
// what the pipeline extracted. The returned bool reports whether a row
// was written.
func (s *ObservationService) Import(ctx context.Context, fundID string, p period.Month, value float64, sourceDocument string) (model.Observation, bool, error) {
	fund, err := s.GetFund(fundID)
	if err != nil {
		return model.Observation{}, false, err
	}
	if p.IsZero() {
		return model.Observation{}, false, fmt.Errorf("%w: report period is required", apperrors.ErrInvalidPeriod)
	}

	exists, err := s.repo.Exists(ctx, fund.ID, p)
	if err != nil {
		return model.Observation{}, false, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	if exists {
		return model.Observation{}, false, nil
	}

	obs := model.Observation{
		FundID:         fund.ID,
		Isin:           fund.Isin,
		FundName:       fund.Name,
		Provider:       fund.Provider,
		FundURL:        fund.URL,
		MaturityYear:   fund.MaturityYear,
		YTMPercent:     value,
		ReportPeriod:   p,
		Source:         model.SourceManual,
		SourceDocument: sourceDocument,
	}
	stored, err := s.repo.Upsert(ctx, obs)
	if err != nil {
		return model.Observation{}, false, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return stored, true, nil
}
