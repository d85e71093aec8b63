package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/acastel/ytm-tracker/internal/apperrors"
	"github.com/acastel/ytm-tracker/internal/extract"
	"github.com/acastel/ytm-tracker/internal/model"
	"github.com/acastel/ytm-tracker/internal/period"
	"github.com/acastel/ytm-tracker/internal/repository"
)

// ExtractionService runs the extraction pipeline across the configured
// funds. Funds are processed one at a time: the sources are few, runs
// are monthly, and sequential failures are far easier to read in logs.
type ExtractionService struct {
	repo     *repository.ObservationRepository
	registry *extract.Registry
	funds    []model.Fund
	log      *logrus.Logger
}

// NewExtractionService creates a new ExtractionService with the provided dependencies.
func NewExtractionService(
	repo *repository.ObservationRepository,
	registry *extract.Registry,
	funds []model.Fund,
	log *logrus.Logger,
) *ExtractionService {
	return &ExtractionService{
		repo:     repo,
		registry: registry,
		funds:    funds,
		log:      log,
	}
}

// RunOptions controls one extraction run.
type RunOptions struct {
	// Period is the report month to extract. Zero means the month before
	// the current one, which is the month providers are publishing for.
	Period period.Month

	// FundID restricts the run to a single configured fund.
	FundID string

	// Force re-extracts funds that already have a stored observation for
	// the period.
	Force bool

	// DryRun extracts and reports values without persisting anything.
	DryRun bool

	// Timeout bounds each fund's attempt. Zero means defaultFundTimeout.
	Timeout time.Duration
}

// defaultFundTimeout caps one fund's attempt across all of its fetches. A
// provider that stalls must not hold up the rest of the batch.
const defaultFundTimeout = 2 * time.Minute

// Run executes one extraction pass and returns a per-fund summary.
//
// A fund that fails to extract is recorded in the summary and the run
// moves on; those errors never come back as Run's own error. Only two
// things abort the whole run: a cancelled context, and storage becoming
// unreachable, because every remaining fund would hit the same wall.
func (s *ExtractionService) Run(ctx context.Context, opts RunOptions) (summary model.RunSummary, err error) {
	target := opts.Period
	if target.IsZero() {
		target = period.Of(time.Now()).Prev()
	}

	funds, err := s.selectFunds(opts.FundID)
	if err != nil {
		return model.RunSummary{}, err
	}

	summary = model.RunSummary{
		Target:    target,
		StartedAt: time.Now().UTC(),
		Results:   []model.RunResult{},
	}
	defer func() {
		summary.Duration = time.Since(summary.StartedAt)
	}()

	s.log.WithFields(logrus.Fields{
		"period": target.String(),
		"funds":  len(funds),
		"force":  opts.Force,
		"dryRun": opts.DryRun,
	}).Info("Starting extraction run")

	for _, fund := range funds {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}

		if !opts.Force {
			exists, existsErr := s.repo.Exists(ctx, fund.ID, target)
			if existsErr != nil {
				return summary, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, existsErr)
			}
			if exists {
				s.log.WithFields(logrus.Fields{
					"fund":   fund.ID,
					"period": target.String(),
				}).Info("Observation already recorded, skipping")
				s.record(&summary, model.RunResult{
					FundID:   fund.ID,
					FundName: fund.Name,
					Status:   model.RunSkipped,
					Period:   target,
				})
				continue
			}
		}

		obs, extractErr := s.extractFund(ctx, fund, target, opts.Timeout)
		if extractErr != nil {
			s.log.WithFields(logrus.Fields{
				"fund":   fund.ID,
				"period": target.String(),
				"error":  extractErr.Error(),
			}).Error("Extraction failed")
			s.record(&summary, model.RunResult{
				FundID:   fund.ID,
				FundName: fund.Name,
				Status:   model.RunFailed,
				Period:   target,
				Error:    extractErr.Error(),
			})
			continue
		}

		if !opts.DryRun {
			obs, err = s.repo.Upsert(ctx, obs)
			if err != nil {
				return summary, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
			}
		}

		s.record(&summary, model.RunResult{
			FundID:     fund.ID,
			FundName:   fund.Name,
			Status:     model.RunOK,
			Period:     obs.ReportPeriod,
			YTMPercent: obs.YTMPercent,
		})
	}

	s.log.WithFields(logrus.Fields{
		"period":    target.String(),
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Info("Extraction run finished")

	return summary, nil
}

func (s *ExtractionService) extractFund(ctx context.Context, fund model.Fund, target period.Month, timeout time.Duration) (model.Observation, error) {
	strategy, err := s.registry.For(fund.Provider)
	if err != nil {
		return model.Observation{}, err
	}

	if timeout <= 0 {
		timeout = defaultFundTimeout
	}
	fundCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return strategy.Extract(fundCtx, fund, target)
}

func (s *ExtractionService) selectFunds(fundID string) ([]model.Fund, error) {
	if fundID == "" {
		return s.funds, nil
	}
	for _, f := range s.funds {
		if f.ID == fundID {
			return []model.Fund{f}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, fundID)
}

func (s *ExtractionService) record(summary *model.RunSummary, result model.RunResult) {
	summary.Results = append(summary.Results, result)
	switch result.Status {
	case model.RunOK:
		summary.Succeeded++
	case model.RunSkipped:
		summary.Skipped++
	case model.RunFailed:
		summary.Failed++
	}
}
