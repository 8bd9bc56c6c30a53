package engine

import "fmt"

// Params are the tunable knobs of the optimization engine. They are passed
// explicitly into every entry point; there is no global configuration state.
type Params struct {
	// ServiceLevelZ is the z-score for the desired fill rate, e.g. 1.65 for 95%.
	ServiceLevelZ float64 `json:"service_level_z"`
	// SafetyBufferDays is the cushion added to replenishment lead time when
	// deciding whether an expiring lot is still recoverable.
	SafetyBufferDays float64 `json:"safety_buffer_days"`
	// ABCCutoffA and ABCCutoffB are cumulative-revenue fractions.
	ABCCutoffA float64 `json:"abc_cutoff_a"`
	ABCCutoffB float64 `json:"abc_cutoff_b"`
	// XYZCutoffX and XYZCutoffY are coefficient-of-variation bounds.
	XYZCutoffX float64 `json:"xyz_cutoff_x"`
	XYZCutoffY float64 `json:"xyz_cutoff_y"`
	// ExcessCoverageDays is the coverage above which stock counts as excess.
	ExcessCoverageDays float64 `json:"excess_coverage_days"`
	// PeriodDays is the length of one forecast/supply period bucket.
	PeriodDays float64 `json:"period_days"`
	// MinSellThroughDays is the shortest window in which an urgent sale is
	// still worth attempting; red-zone lots with less time are disposed.
	MinSellThroughDays float64 `json:"min_sell_through_days"`
	// ProjectionHorizonDays is the lookahead for projecting yellow-zone lots
	// tipping into the red zone.
	ProjectionHorizonDays float64 `json:"projection_horizon_days"`
}

// DefaultParams returns the engine defaults. Callers normally start here and
// override individual knobs from configuration or request parameters.
func DefaultParams() Params {
	return Params{
		ServiceLevelZ:         1.65, // 95% service level
		SafetyBufferDays:      5,
		ABCCutoffA:            0.80,
		ABCCutoffB:            0.95,
		XYZCutoffX:            0.5,
		XYZCutoffY:            1.0,
		ExcessCoverageDays:    90,
		PeriodDays:            7,
		MinSellThroughDays:    3,
		ProjectionHorizonDays: 14,
	}
}

// Validate rejects inconsistent parameters before any computation runs.
func (p Params) Validate() error {
	if p.ServiceLevelZ < 0 {
		return fmt.Errorf("service level z must not be negative, got %v", p.ServiceLevelZ)
	}
	if p.SafetyBufferDays < 0 {
		return fmt.Errorf("safety buffer days must not be negative, got %v", p.SafetyBufferDays)
	}
	if p.ABCCutoffA <= 0 || p.ABCCutoffB > 1 || p.ABCCutoffA >= p.ABCCutoffB {
		return fmt.Errorf("abc cutoffs must satisfy 0 < A < B <= 1, got A=%v B=%v", p.ABCCutoffA, p.ABCCutoffB)
	}
	if p.XYZCutoffX <= 0 || p.XYZCutoffX >= p.XYZCutoffY {
		return fmt.Errorf("xyz cutoffs must satisfy 0 < X < Y, got X=%v Y=%v", p.XYZCutoffX, p.XYZCutoffY)
	}
	if p.ExcessCoverageDays <= 0 {
		return fmt.Errorf("excess coverage days must be positive, got %v", p.ExcessCoverageDays)
	}
	if p.PeriodDays <= 0 {
		return fmt.Errorf("period days must be positive, got %v", p.PeriodDays)
	}
	if p.MinSellThroughDays < 0 {
		return fmt.Errorf("min sell-through days must not be negative, got %v", p.MinSellThroughDays)
	}
	if p.ProjectionHorizonDays < 0 {
		return fmt.Errorf("projection horizon days must not be negative, got %v", p.ProjectionHorizonDays)
	}

	return nil
}
