package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mealflow/demandplan/internal/cache"
	"github.com/mealflow/demandplan/internal/config"
	"github.com/mealflow/demandplan/internal/domain"
	"github.com/mealflow/demandplan/internal/engine"
	"github.com/mealflow/demandplan/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// OptimizationService resolves engine inputs from the repository, runs the
// optimization facade and caches the resulting report.
type OptimizationService struct {
	repo              repository.CatalogRepository
	cache             cache.ReportCache
	defaults          engine.Params
	horizonPeriods    int
	historyWindowDays int
}

func NewOptimizationService(repo repository.CatalogRepository, cacheImpl cache.ReportCache, cfg config.EngineConfig) *OptimizationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}

	return &OptimizationService{
		repo:  repo,
		cache: cacheImpl,
		defaults: engine.Params{
			ServiceLevelZ:         cfg.ServiceLevelZ,
			SafetyBufferDays:      cfg.SafetyBufferDays,
			ABCCutoffA:            cfg.ABCCutoffA,
			ABCCutoffB:            cfg.ABCCutoffB,
			XYZCutoffX:            cfg.XYZCutoffX,
			XYZCutoffY:            cfg.XYZCutoffY,
			ExcessCoverageDays:    cfg.ExcessCoverageDays,
			PeriodDays:            cfg.PeriodDays,
			MinSellThroughDays:    cfg.MinSellThroughDays,
			ProjectionHorizonDays: cfg.ProjectionHorizonDays,
		},
		horizonPeriods:    cfg.HorizonPeriods,
		historyWindowDays: cfg.HistoryWindowDays,
	}
}

// DefaultParams returns the configured engine defaults.
func (s *OptimizationService) DefaultParams() engine.Params {
	return s.defaults
}

// BuildReport returns the optimization report for the given parameters,
// serving from cache when possible. refresh bypasses the cache lookup.
func (s *OptimizationService) BuildReport(ctx context.Context, params engine.Params, refresh bool) (*domain.OptimizationReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if !refresh {
		if report, ok, err := s.cache.GetReport(ctx, params); err == nil && ok {
			return report, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("optimization: cache get report failed")
		}
	}

	inputs, err := s.gatherInputs(ctx)
	if err != nil {
		return nil, err
	}

	report, err := engine.BuildReport(ctx, *inputs, params)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetReport(ctx, params, report); err != nil {
		log.Warn().Err(err).Msg("optimization: cache set report failed")
	}

	return report, nil
}

// Trajectory returns the projections for one product, or an error when the
// SKU has none.
func (s *OptimizationService) Trajectory(ctx context.Context, sku string, params engine.Params) ([]domain.TrajectoryResult, error) {
	report, err := s.BuildReport(ctx, params, false)
	if err != nil {
		return nil, err
	}

	var results []domain.TrajectoryResult
	for _, trajectory := range report.Trajectories {
		if trajectory.SKU == sku {
			results = append(results, trajectory)
		}
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no trajectory for sku %s", sku)
	}

	return results, nil
}

// InvalidateCache drops every cached report, e.g. after new data lands.
func (s *OptimizationService) InvalidateCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// gatherInputs fetches all engine inputs concurrently. The individual
// fetches are independent, so a single errgroup fans them out.
func (s *OptimizationService) gatherInputs(ctx context.Context) (*engine.Inputs, error) {
	asOf := time.Now().UTC()
	inputs := &engine.Inputs{AsOf: asOf}

	horizon, err := s.repo.GetHorizonPeriods(ctx, s.horizonPeriods)
	if err != nil {
		return nil, fmt.Errorf("gather inputs: %w", err)
	}
	inputs.Horizon = horizon

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		inputs.Products, err = s.repo.GetProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Revenue, err = s.repo.GetRevenueByProduct(gctx, s.historyWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.DemandHistory, err = s.repo.GetDemandHistory(gctx, s.historyWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Forecast, err = s.repo.GetForecast(gctx, horizon)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Supply, err = s.repo.GetSupplySchedule(gctx, horizon)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Snapshots, err = s.repo.GetStockSnapshots(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.Lots, err = s.repo.GetLots(gctx, asOf)
		return err
	})
	g.Go(func() error {
		var err error
		inputs.CurrentOrderQty, err = s.repo.GetCurrentOrderQuantities(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather inputs: %w", err)
	}

	return inputs, nil
}
