package engine

import (
	"time"

	"github.com/mealflow/demandplan/internal/domain"
)

// ScoreExpirationRisk assigns a risk zone and a recommended clearance action
// to every perishable lot. Lots whose product is non-perishable (or unknown)
// are skipped. The assessment is a pure function of the lot's remaining days
// until expiry, the product's total replenishment lead time and the safety
// buffer; it is re-derived on every call so it can never go stale.
//
// velocity maps SKU to average daily demand and drives the yellow-zone
// markdown-versus-promo decision; missing entries default to zero.
func ScoreExpirationRisk(
	lots []domain.Lot,
	products map[string]domain.Product,
	velocity map[string]float64,
	asOf time.Time,
	params Params,
) ([]domain.RiskAssessment, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	assessments := make([]domain.RiskAssessment, 0, len(lots))
	for _, lot := range lots {
		product, ok := products[lot.SKU]
		if !ok || !product.Perishable() {
			continue
		}

		assessments = append(assessments, assessLot(lot, product, velocity[lot.SKU], asOf, params))
	}

	return assessments, nil
}

func assessLot(lot domain.Lot, product domain.Product, dailyVelocity float64, asOf time.Time, params Params) domain.RiskAssessment {
	daysUntilExpiry := lot.ExpiryDate.Sub(asOf).Hours() / 24

	// criticalWindow: the lot cannot be resupplied before this many days.
	criticalWindow := product.ReplenishmentLeadTimeDays
	safeWindow := criticalWindow + params.SafetyBufferDays

	var zone domain.RiskZone
	var action domain.ClearanceAction
	switch {
	case daysUntilExpiry <= 0:
		zone = domain.ZoneExpired
		action = domain.ActionDispose
	case daysUntilExpiry <= criticalWindow:
		zone = domain.ZoneRed
		if daysUntilExpiry >= params.MinSellThroughDays {
			action = domain.ActionUrgentSale
		} else {
			action = domain.ActionDispose
		}
	case daysUntilExpiry <= safeWindow:
		zone = domain.ZoneYellow
		// More stock than the product can sell through before expiry needs a
		// promotion; otherwise a markdown clears it.
		if lot.Quantity > dailyVelocity*daysUntilExpiry {
			action = domain.ActionRunPromo
		} else {
			action = domain.ActionMarkdown
		}
	default:
		zone = domain.ZoneGreen
		action = domain.ActionNone
	}

	return domain.RiskAssessment{
		LotID:           lot.LotID,
		SKU:             lot.SKU,
		ProductName:     product.Name,
		Location:        lot.Location,
		Quantity:        lot.Quantity,
		DaysUntilExpiry: round2(daysUntilExpiry),
		Zone:            zone,
		Action:          action,
		ValueAtRisk:     lot.Value(product.UnitCost),
	}
}

// TipsIntoRed reports whether a yellow-zone lot is expected to enter the red
// zone within the projection horizon.
func TipsIntoRed(assessment domain.RiskAssessment, product domain.Product, params Params) bool {
	if assessment.Zone != domain.ZoneYellow {
		return false
	}

	return assessment.DaysUntilExpiry-params.ProjectionHorizonDays <= product.ReplenishmentLeadTimeDays
}
