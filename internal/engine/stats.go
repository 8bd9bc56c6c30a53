package engine

import (
	"math"

	"github.com/mealflow/demandplan/internal/domain"
)

// DemandStats summarizes a product's demand history normalized to daily
// rates, so observations with different bucket lengths compare cleanly.
type DemandStats struct {
	Observations int
	// MeanDaily is the average daily demand over the observation window.
	MeanDaily float64
	// StdDevDaily is the sample standard deviation of daily demand.
	StdDevDaily float64
	// AnnualDemand is the mean daily demand annualized.
	AnnualDemand float64
}

// CV returns the coefficient of variation. ok is false when mean demand is
// zero; callers must treat that as maximally unpredictable rather than
// dividing by zero.
func (s DemandStats) CV() (cv float64, ok bool) {
	if s.MeanDaily <= 0 {
		return 0, false
	}

	return s.StdDevDaily / s.MeanDaily, true
}

// DeriveDemandStats computes daily-rate demand statistics from historical
// observations. An empty history yields zero stats.
func DeriveDemandStats(history []domain.DemandObservation) DemandStats {
	if len(history) == 0 {
		return DemandStats{}
	}

	rates := make([]float64, 0, len(history))
	for _, obs := range history {
		rates = append(rates, obs.Quantity/obs.Days())
	}

	mean := meanOf(rates)

	return DemandStats{
		Observations: len(rates),
		MeanDaily:    mean,
		StdDevDaily:  sampleStdDev(rates, mean),
		AnnualDemand: mean * 365,
	}
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator; a single observation has no spread.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)-1))
}
