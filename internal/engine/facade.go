package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mealflow/demandplan/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxFanOut bounds the per-product worker fan-out inside BuildReport.
const maxFanOut = 8

// Inputs carries everything BuildReport needs, already resolved in memory.
// Fetching the data is the responsibility of the data-access layer; the
// engine itself never touches I/O.
type Inputs struct {
	Products        []domain.Product
	Revenue         map[string]decimal.Decimal
	DemandHistory   map[string][]domain.DemandObservation
	Forecast        []domain.ForecastPoint
	Supply          []domain.SupplyEvent
	Snapshots       []domain.StockSnapshot
	Lots            []domain.Lot
	CurrentOrderQty map[string]float64
	Horizon         []string
	AsOf            time.Time
}

// BuildReport runs the whole optimization over the catalog and produces the
// aggregate report the dashboard renders. Configuration and catalog data are
// validated up front so a bad input fails fast instead of mid-aggregation.
// Inputs are snapshotted (copy-on-read) before computing, so a concurrently
// mutated caller-side catalog cannot produce an inconsistent report.
func BuildReport(ctx context.Context, in Inputs, params Params) (*domain.OptimizationReport, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid optimization parameters: %w", err)
	}
	if err := validateInputs(in); err != nil {
		return nil, err
	}

	in = snapshotInputs(in)

	classifications, err := Classify(in.Products, in.Revenue, in.DemandHistory, params)
	if err != nil {
		return nil, err
	}

	statsBySKU := make(map[string]DemandStats, len(in.Products))
	for _, p := range in.Products {
		statsBySKU[p.SKU] = DeriveDemandStats(in.DemandHistory[p.SKU])
	}

	snapshots := snapshotsByProduct(in)

	// Products and lots are independent, so fan out per product and score
	// lots in parallel with them.
	eoqTable := make([]domain.EOQResult, len(in.Products))
	trajectories := make([][]domain.TrajectoryResult, len(in.Products))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)

	for i, product := range in.Products {
		g.Go(func() error {
			stats := statsBySKU[product.SKU]
			eoq := OptimizeEOQ(product, stats, in.CurrentOrderQty[product.SKU], params)
			eoqTable[i] = eoq

			results := make([]domain.TrajectoryResult, 0, len(snapshots[product.SKU]))
			for _, snap := range snapshots[product.SKU] {
				trajectory, err := SimulateTrajectory(product, snap, in.Forecast, in.Supply, in.Horizon, eoq.SafetyStock, params)
				if err != nil {
					return err
				}
				results = append(results, trajectory)
			}
			trajectories[i] = results

			return nil
		})
	}

	var assessments []domain.RiskAssessment
	g.Go(func() error {
		velocity := make(map[string]float64, len(statsBySKU))
		for sku, stats := range statsBySKU {
			velocity[sku] = stats.MeanDaily
		}

		products := make(map[string]domain.Product, len(in.Products))
		for _, p := range in.Products {
			products[p.SKU] = p
		}

		var err error
		assessments, err = ScoreExpirationRisk(in.Lots, products, velocity, in.AsOf, params)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.OptimizationReport{
		GeneratedAt:        time.Now().UTC(),
		AsOfDate:           in.AsOf,
		Horizon:            in.Horizon,
		Classifications:    classifications,
		MatrixDistribution: MatrixDistribution(classifications),
		EOQTable:           eoqTable,
		ActionQueue:        assessments,
	}

	for _, perProduct := range trajectories {
		report.Trajectories = append(report.Trajectories, perProduct...)
	}

	// EOQ table ordered by potential savings descending, sentinel rows last.
	sort.SliceStable(report.EOQTable, func(i, j int) bool {
		a, b := report.EOQTable[i], report.EOQTable[j]
		if a.Applicable != b.Applicable {
			return a.Applicable
		}
		return a.PotentialSavings.GreaterThan(b.PotentialSavings)
	})

	// Action queue ordered by ascending days until expiry: the most urgent
	// lot is always first.
	sort.SliceStable(report.ActionQueue, func(i, j int) bool {
		return report.ActionQueue[i].DaysUntilExpiry < report.ActionQueue[j].DaysUntilExpiry
	})

	report.Summary = summarize(report, in, params)

	return report, nil
}

func summarize(report *domain.OptimizationReport, in Inputs, params Params) domain.ReportSummary {
	summary := domain.ReportSummary{
		ProductsTracked:      len(in.Products),
		PotentialSavings:     decimal.Zero,
		ImmediateValueAtRisk: decimal.Zero,
		ProjectedValueAtRisk: decimal.Zero,
		ExpiredValue:         decimal.Zero,
	}

	for _, eoq := range report.EOQTable {
		if eoq.Applicable && !eoq.CurrentPolicyOptimal && eoq.PotentialSavings.IsPositive() {
			summary.PotentialSavings = summary.PotentialSavings.Add(eoq.PotentialSavings)
		}
	}

	for _, trajectory := range report.Trajectories {
		switch trajectory.Status {
		case domain.StatusStockOut, domain.StatusLowStock:
			summary.ItemsRequiringAction++
		case domain.StatusOptimal:
			summary.OptimalItems++
		}
	}
	if len(report.Trajectories) > 0 {
		summary.CoveragePercent = round2(float64(summary.OptimalItems) / float64(len(report.Trajectories)) * 100)
	}

	products := make(map[string]domain.Product, len(in.Products))
	for _, p := range in.Products {
		products[p.SKU] = p
	}

	for _, assessment := range report.ActionQueue {
		switch assessment.Zone {
		case domain.ZoneExpired:
			summary.ExpiredValue = summary.ExpiredValue.Add(assessment.ValueAtRisk)
		case domain.ZoneRed:
			summary.ImmediateValueAtRisk = summary.ImmediateValueAtRisk.Add(assessment.ValueAtRisk)
		case domain.ZoneYellow:
			if TipsIntoRed(assessment, products[assessment.SKU], params) {
				summary.ProjectedValueAtRisk = summary.ProjectedValueAtRisk.Add(assessment.ValueAtRisk)
			}
		}
	}

	return summary
}

// validateInputs surfaces malformed catalog records up front, identifying the
// offending record in the error.
func validateInputs(in Inputs) error {
	if len(in.Products) > 0 && len(in.Horizon) == 0 {
		return fmt.Errorf("planning horizon must not be empty")
	}

	for _, p := range in.Products {
		if p.SKU == "" {
			return fmt.Errorf("product %q: sku must not be empty", p.Name)
		}
		if p.UnitCost.IsNegative() || p.UnitPrice.IsNegative() || p.OrderingCostPerOrder.IsNegative() {
			return fmt.Errorf("product %s: costs must not be negative", p.SKU)
		}
		if p.HoldingCostRate < 0 {
			return fmt.Errorf("product %s: holding cost rate must not be negative", p.SKU)
		}
		if p.ReplenishmentLeadTimeDays < 0 {
			return fmt.Errorf("product %s: replenishment lead time must not be negative", p.SKU)
		}
		if p.ShelfLifeDays != nil && *p.ShelfLifeDays < 0 {
			return fmt.Errorf("product %s: shelf life must not be negative", p.SKU)
		}
	}

	for _, snap := range in.Snapshots {
		if snap.Quantity < 0 {
			return fmt.Errorf("stock snapshot %s@%s: quantity must not be negative", snap.SKU, snap.Location)
		}
	}

	for _, lot := range in.Lots {
		if lot.Quantity < 0 {
			return fmt.Errorf("lot %s: quantity must not be negative", lot.LotID)
		}
	}

	return nil
}

// snapshotInputs copies every slice and map so the report sees a consistent
// view even if the caller mutates its collections concurrently.
func snapshotInputs(in Inputs) Inputs {
	out := Inputs{
		Products:  append([]domain.Product(nil), in.Products...),
		Forecast:  append([]domain.ForecastPoint(nil), in.Forecast...),
		Supply:    append([]domain.SupplyEvent(nil), in.Supply...),
		Snapshots: append([]domain.StockSnapshot(nil), in.Snapshots...),
		Lots:      append([]domain.Lot(nil), in.Lots...),
		Horizon:   append([]string(nil), in.Horizon...),
		AsOf:      in.AsOf,
	}

	out.Revenue = make(map[string]decimal.Decimal, len(in.Revenue))
	for sku, rev := range in.Revenue {
		out.Revenue[sku] = rev
	}

	out.DemandHistory = make(map[string][]domain.DemandObservation, len(in.DemandHistory))
	for sku, history := range in.DemandHistory {
		out.DemandHistory[sku] = append([]domain.DemandObservation(nil), history...)
	}

	out.CurrentOrderQty = make(map[string]float64, len(in.CurrentOrderQty))
	for sku, qty := range in.CurrentOrderQty {
		out.CurrentOrderQty[sku] = qty
	}

	return out
}

// snapshotsByProduct groups stock snapshots by SKU. A product with no
// snapshot gets a synthetic zero-quantity one so its trajectory still covers
// the full horizon.
func snapshotsByProduct(in Inputs) map[string][]domain.StockSnapshot {
	grouped := make(map[string][]domain.StockSnapshot, len(in.Products))
	for _, snap := range in.Snapshots {
		grouped[snap.SKU] = append(grouped[snap.SKU], snap)
	}

	for _, p := range in.Products {
		if len(grouped[p.SKU]) == 0 {
			grouped[p.SKU] = []domain.StockSnapshot{{SKU: p.SKU, Location: "default", AsOfDate: in.AsOf}}
		}
	}

	return grouped
}
