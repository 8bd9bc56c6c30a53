package engine

import (
	"math"

	"github.com/mealflow/demandplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizeEOQ computes the economic order quantity, safety stock and reorder
// point for one product, and compares the annual cost of the current order
// quantity against ordering at EOQ. currentOrderQty may be zero when the
// current policy is unknown; the comparison is then skipped.
//
// EOQ is undefined when annual demand or the per-unit holding cost is zero.
// Such results carry Applicable=false instead of NaN or Inf and must be
// excluded from savings aggregation.
func OptimizeEOQ(product domain.Product, stats DemandStats, currentOrderQty float64, params Params) domain.EOQResult {
	result := domain.EOQResult{
		SKU:          product.SKU,
		ProductName:  product.Name,
		AnnualDemand: round2(stats.AnnualDemand),
	}

	orderingCost, _ := product.OrderingCostPerOrder.Float64()
	unitCost, _ := product.UnitCost.Float64()
	holdingPerUnit := unitCost * product.HoldingCostRate

	leadTime := product.ReplenishmentLeadTimeDays
	result.SafetyStock = round2(params.ServiceLevelZ * stats.StdDevDaily * math.Sqrt(leadTime))
	result.ReorderPoint = round2(stats.MeanDaily*leadTime + result.SafetyStock)

	if stats.AnnualDemand <= 0 || holdingPerUnit <= 0 || orderingCost <= 0 {
		return result
	}

	result.Applicable = true
	result.EOQ = round2(math.Sqrt(2 * stats.AnnualDemand * orderingCost / holdingPerUnit))
	result.OrdersPerYear = round2(stats.AnnualDemand / result.EOQ)

	annualOrdering := (stats.AnnualDemand / result.EOQ) * orderingCost
	annualHolding := (result.EOQ / 2) * holdingPerUnit
	result.AnnualOrderingCost = money(annualOrdering)
	result.AnnualHoldingCost = money(annualHolding)
	result.TotalCostAtEOQ = money(annualOrdering + annualHolding)

	if currentOrderQty <= 0 {
		return result
	}

	currentTotal := annualPolicyCost(stats.AnnualDemand, currentOrderQty, orderingCost, holdingPerUnit)
	result.TotalCostCurrent = money(currentTotal)

	eoqTotal := annualOrdering + annualHolding
	savings := currentTotal - eoqTotal
	if savings <= 0 {
		// Report the delta but never present a negative "savings" silently.
		result.CurrentPolicyOptimal = true
	}
	result.PotentialSavings = money(savings)
	if currentTotal > 0 {
		result.SavingsPercent = round2(savings / currentTotal * 100)
	}

	return result
}

// annualPolicyCost is the combined annual ordering + holding cost of
// ordering quantity q: (D/q)*S + (q/2)*H.
func annualPolicyCost(annualDemand, q, orderingCost, holdingPerUnit float64) float64 {
	return (annualDemand/q)*orderingCost + (q/2)*holdingPerUnit
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
