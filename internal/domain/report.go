package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClassificationResult is the ABC/XYZ outcome for one product.
type ClassificationResult struct {
	SKU                    string          `json:"sku"`
	ProductName            string          `json:"product_name"`
	Category               string          `json:"category"`
	Revenue                decimal.Decimal `json:"revenue"`
	RevenueFraction        float64         `json:"revenue_fraction"`
	CumulativeFraction     float64         `json:"cumulative_fraction"`
	CoefficientOfVariation float64         `json:"coefficient_of_variation"`
	ABCClass               ABCClass        `json:"abc_class"`
	XYZClass               XYZClass        `json:"xyz_class"`
	MatrixCell             string          `json:"matrix_cell"`
	Strategy               string          `json:"strategy"`
	ReviewFrequencyDays    int             `json:"review_frequency_days"`
	Priority               int             `json:"priority"`
}

// EOQResult is the economic-order-quantity recommendation for one product.
// Applicable is false when annual demand or holding cost is zero; such
// results carry no quantities and are excluded from savings aggregation.
type EOQResult struct {
	SKU                  string          `json:"sku"`
	ProductName          string          `json:"product_name"`
	Applicable           bool            `json:"applicable"`
	AnnualDemand         float64         `json:"annual_demand"`
	EOQ                  float64         `json:"eoq"`
	OrdersPerYear        float64         `json:"orders_per_year"`
	SafetyStock          float64         `json:"safety_stock"`
	ReorderPoint         float64         `json:"reorder_point"`
	AnnualOrderingCost   decimal.Decimal `json:"annual_ordering_cost"`
	AnnualHoldingCost    decimal.Decimal `json:"annual_holding_cost"`
	TotalCostAtEOQ       decimal.Decimal `json:"total_cost_at_eoq"`
	TotalCostCurrent     decimal.Decimal `json:"total_cost_current"`
	PotentialSavings     decimal.Decimal `json:"potential_savings"`
	SavingsPercent       float64         `json:"savings_percent"`
	CurrentPolicyOptimal bool            `json:"current_policy_optimal"`
}

// TrajectoryPoint is one period of a projected stock trajectory.
// ProjectedSOH may go negative to signal stockout magnitude.
type TrajectoryPoint struct {
	Period             string  `json:"period"`
	ForecastDemand     float64 `json:"forecast_demand"`
	IncomingSupply     float64 `json:"incoming_supply"`
	ProjectedSOH       float64 `json:"projected_soh"`
	CoverageDays       float64 `json:"coverage_days"`
	CoverageUnbounded  bool    `json:"coverage_unbounded"`
}

// TrajectoryResult is the full projection for one product at one location.
type TrajectoryResult struct {
	SKU         string            `json:"sku"`
	ProductName string            `json:"product_name"`
	Category    string            `json:"category"`
	Location    string            `json:"location"`
	Points      []TrajectoryPoint `json:"points"`
	Status      StockStatus       `json:"status"`
}

// RiskAssessment is the expiration-risk outcome for one lot, re-derived on
// every evaluation so it can never go stale as the as-of date advances.
type RiskAssessment struct {
	LotID           string          `json:"lot_id"`
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name"`
	Location        string          `json:"location"`
	Quantity        float64         `json:"quantity"`
	DaysUntilExpiry float64         `json:"days_until_expiry"`
	Zone            RiskZone        `json:"zone"`
	Action          ClearanceAction `json:"action"`
	ValueAtRisk     decimal.Decimal `json:"value_at_risk"`
}

// MatrixCellCount is one cell of the 3x3 classification distribution.
type MatrixCellCount struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
}

// ReportSummary carries the headline KPI card figures.
type ReportSummary struct {
	ProductsTracked      int             `json:"products_tracked"`
	ItemsRequiringAction int             `json:"items_requiring_action"`
	OptimalItems         int             `json:"optimal_items"`
	CoveragePercent      float64         `json:"coverage_percent"`
	PotentialSavings     decimal.Decimal `json:"potential_savings"`
	ImmediateValueAtRisk decimal.Decimal `json:"immediate_value_at_risk"`
	ProjectedValueAtRisk decimal.Decimal `json:"projected_value_at_risk"`
	ExpiredValue         decimal.Decimal `json:"expired_value"`
}

// OptimizationReport is the aggregate the dashboard renders. Every field is
// derived from the inputs at generation time; nothing is stored.
type OptimizationReport struct {
	GeneratedAt        time.Time              `json:"generated_at"`
	AsOfDate           time.Time              `json:"as_of_date"`
	Horizon            []string               `json:"horizon"`
	Summary            ReportSummary          `json:"summary"`
	Classifications    []ClassificationResult `json:"classifications"`
	MatrixDistribution []MatrixCellCount      `json:"matrix_distribution"`
	EOQTable           []EOQResult            `json:"eoq_table"`
	Trajectories       []TrajectoryResult     `json:"trajectories"`
	ActionQueue        []RiskAssessment       `json:"action_queue"`
}
