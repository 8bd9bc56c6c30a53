package engine

import (
	"fmt"

	"github.com/mealflow/demandplan/internal/domain"
)

// SimulateTrajectory projects stock-on-hand period by period for one product
// at one location. The horizon is an ordered list of period labels; forecast
// and supply entries are looked up by label and default to zero when missing,
// so the trajectory is always computable for the full horizon.
//
// The projection is deterministic: identical inputs always yield identical
// output sequences. Projected stock may go negative to expose stockout
// magnitude; the derived status treats any non-positive value as STOCK_OUT.
func SimulateTrajectory(
	product domain.Product,
	snapshot domain.StockSnapshot,
	forecast []domain.ForecastPoint,
	supply []domain.SupplyEvent,
	horizon []string,
	safetyStock float64,
	params Params,
) (domain.TrajectoryResult, error) {
	if err := params.Validate(); err != nil {
		return domain.TrajectoryResult{}, err
	}
	if len(horizon) == 0 {
		return domain.TrajectoryResult{}, fmt.Errorf("trajectory for %s: horizon must not be empty", product.SKU)
	}

	forecastByPeriod := make(map[string]float64, len(forecast))
	for _, f := range forecast {
		if f.SKU == product.SKU {
			forecastByPeriod[f.PeriodLabel] += f.Quantity
		}
	}

	supplyByPeriod := make(map[string]float64, len(supply))
	for _, s := range supply {
		if s.SKU == product.SKU {
			supplyByPeriod[s.PeriodLabel] += s.Quantity
		}
	}

	var totalForecast float64
	for _, label := range horizon {
		totalForecast += forecastByPeriod[label]
	}
	avgDailyDemand := totalForecast / (float64(len(horizon)) * params.PeriodDays)

	points := make([]domain.TrajectoryPoint, 0, len(horizon))
	soh := snapshot.Quantity
	for _, label := range horizon {
		demand := forecastByPeriod[label]
		incoming := supplyByPeriod[label]
		soh = soh - demand + incoming

		point := domain.TrajectoryPoint{
			Period:         label,
			ForecastDemand: demand,
			IncomingSupply: incoming,
			ProjectedSOH:   round2(soh),
		}
		if avgDailyDemand > 0 {
			point.CoverageDays = round2(soh / avgDailyDemand)
		} else {
			point.CoverageUnbounded = true
		}
		points = append(points, point)
	}

	return domain.TrajectoryResult{
		SKU:         product.SKU,
		ProductName: product.Name,
		Category:    product.Category,
		Location:    snapshot.Location,
		Points:      points,
		Status:      classifyStockStatus(points[0], safetyStock, params),
	}, nil
}

// classifyStockStatus derives the current stock health from the first
// projected period. Checks are ordered; the first match wins.
func classifyStockStatus(current domain.TrajectoryPoint, safetyStock float64, params Params) domain.StockStatus {
	switch {
	case current.ProjectedSOH <= 0:
		return domain.StatusStockOut
	case current.ProjectedSOH < safetyStock:
		return domain.StatusLowStock
	// Unbounded coverage means stock with no forecast demand at all, which
	// exceeds any finite excess threshold.
	case current.CoverageUnbounded || current.CoverageDays > params.ExcessCoverageDays:
		return domain.StatusExcess
	default:
		return domain.StatusOptimal
	}
}
