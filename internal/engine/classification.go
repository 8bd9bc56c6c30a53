package engine

import (
	"sort"

	"github.com/mealflow/demandplan/internal/domain"
	"github.com/shopspring/decimal"
)

// matrixStrategy is the fixed strategic recommendation for one ABC/XYZ cell.
type matrixStrategy struct {
	Strategy            string
	ReviewFrequencyDays int
	Priority            int
}

// strategyMatrix maps the nine ABC/XYZ cells to their recommendations.
// This is a static lookup table, never computed.
var strategyMatrix = map[string]matrixStrategy{
	"AX": {"Tight control, low safety stock, frequent review", 7, 1},
	"AY": {"Good control, moderate safety stock, regular review", 14, 2},
	"AZ": {"Intensive control, high safety stock, close monitoring", 7, 3},
	"BX": {"Standard control, periodic review", 14, 4},
	"BY": {"Normal control, moderate safety stock", 21, 5},
	"BZ": {"Flexible control, responsive replenishment", 14, 6},
	"CX": {"Simple control, minimal inventory", 30, 7},
	"CY": {"Basic control, low safety stock", 45, 8},
	"CZ": {"Minimal attention, accept stockouts", 60, 9},
}

// Classify computes ABC (revenue contribution) and XYZ (demand variability)
// classes for every product and resolves the combined strategy cell.
// Products missing from the revenue map contribute zero revenue; products
// with no demand history classify as Z. The function is pure: it never
// mutates its inputs.
func Classify(
	products []domain.Product,
	revenue map[string]decimal.Decimal,
	history map[string][]domain.DemandObservation,
	params Params,
) ([]domain.ClassificationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	type ranked struct {
		product domain.Product
		revenue decimal.Decimal
		order   int
	}

	rankedProducts := make([]ranked, 0, len(products))
	total := decimal.Zero
	for i, p := range products {
		rev := revenue[p.SKU]
		rankedProducts = append(rankedProducts, ranked{product: p, revenue: rev, order: i})
		total = total.Add(rev)
	}

	// Revenue descending; ties keep stable input order.
	sort.SliceStable(rankedProducts, func(i, j int) bool {
		return rankedProducts[i].revenue.GreaterThan(rankedProducts[j].revenue)
	})

	results := make([]domain.ClassificationResult, 0, len(rankedProducts))
	cumulative := decimal.Zero
	for _, r := range rankedProducts {
		cumulative = cumulative.Add(r.revenue)

		var fraction, cumFraction float64
		abcClass := domain.ABCClassC
		if total.IsPositive() {
			fraction, _ = r.revenue.Div(total).Float64()
			cumFraction, _ = cumulative.Div(total).Float64()
			switch {
			case cumFraction <= params.ABCCutoffA:
				abcClass = domain.ABCClassA
			case cumFraction <= params.ABCCutoffB:
				abcClass = domain.ABCClassB
			}
		}

		stats := DeriveDemandStats(history[r.product.SKU])
		xyzClass := domain.XYZClassZ
		cv, ok := stats.CV()
		if ok {
			switch {
			case cv < params.XYZCutoffX:
				xyzClass = domain.XYZClassX
			case cv < params.XYZCutoffY:
				xyzClass = domain.XYZClassY
			}
		}

		cell := string(abcClass) + string(xyzClass)
		strategy := strategyMatrix[cell]

		results = append(results, domain.ClassificationResult{
			SKU:                    r.product.SKU,
			ProductName:            r.product.Name,
			Category:               r.product.Category,
			Revenue:                r.revenue,
			RevenueFraction:        fraction,
			CumulativeFraction:     cumFraction,
			CoefficientOfVariation: cv,
			ABCClass:               abcClass,
			XYZClass:               xyzClass,
			MatrixCell:             cell,
			Strategy:               strategy.Strategy,
			ReviewFrequencyDays:    strategy.ReviewFrequencyDays,
			Priority:               strategy.Priority,
		})
	}

	return results, nil
}

// MatrixDistribution counts classified products per ABC/XYZ cell, in fixed
// matrix order (AX..CZ) so dashboards render a stable grid.
func MatrixDistribution(results []domain.ClassificationResult) []domain.MatrixCellCount {
	counts := make(map[string]int, 9)
	for _, r := range results {
		counts[r.MatrixCell]++
	}

	cells := make([]domain.MatrixCellCount, 0, 9)
	for _, abc := range []domain.ABCClass{domain.ABCClassA, domain.ABCClassB, domain.ABCClassC} {
		for _, xyz := range []domain.XYZClass{domain.XYZClassX, domain.XYZClassY, domain.XYZClassZ} {
			cell := string(abc) + string(xyz)
			cells = append(cells, domain.MatrixCellCount{Cell: cell, Count: counts[cell]})
		}
	}

	return cells
}
