package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry. Products are owned by the external
// catalog system and referenced by SKU everywhere else.
type Product struct {
	SKU                       string          `json:"sku" db:"sku"`
	Name                      string          `json:"name" db:"name"`
	Category                  string          `json:"category" db:"category"`
	UnitCost                  decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	UnitPrice                 decimal.Decimal `json:"unit_price" db:"unit_price"`
	UnitOfMeasure             string          `json:"unit_of_measure" db:"unit_of_measure"`
	ShelfLifeDays             *int            `json:"shelf_life_days" db:"shelf_life_days"` // nil = non-perishable
	ReplenishmentLeadTimeDays float64         `json:"replenishment_lead_time_days" db:"replenishment_lead_time_days"`
	OrderingCostPerOrder      decimal.Decimal `json:"ordering_cost_per_order" db:"ordering_cost_per_order"`
	HoldingCostRate           float64         `json:"holding_cost_rate" db:"holding_cost_rate"` // fraction of unit value per year
}

// Perishable reports whether the product has a finite shelf life.
func (p Product) Perishable() bool {
	return p.ShelfLifeDays != nil
}

// DemandObservation is one historical demand bucket for a product.
type DemandObservation struct {
	SKU         string    `json:"sku" db:"sku"`
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	PeriodEnd   time.Time `json:"period_end" db:"period_end"`
	Quantity    float64   `json:"quantity" db:"quantity"`
}

// Days returns the observation bucket length in days, never less than one.
func (o DemandObservation) Days() float64 {
	d := o.PeriodEnd.Sub(o.PeriodStart).Hours() / 24
	if d < 1 {
		return 1
	}
	return d
}

// ForecastPoint is an externally produced demand prediction for one period.
type ForecastPoint struct {
	SKU         string  `json:"sku" db:"sku"`
	PeriodLabel string  `json:"period_label" db:"period_label"`
	Quantity    float64 `json:"quantity" db:"quantity"`
}

// SupplyEvent is a scheduled incoming receipt.
type SupplyEvent struct {
	SKU         string       `json:"sku" db:"sku"`
	PeriodLabel string       `json:"period_label" db:"period_label"`
	Quantity    float64      `json:"quantity" db:"quantity"`
	Source      SupplySource `json:"source" db:"source"`
}

// StockSnapshot is the current on-hand quantity for a product at a location.
type StockSnapshot struct {
	SKU      string    `json:"sku" db:"sku"`
	Location string    `json:"location" db:"location"`
	Quantity float64   `json:"quantity" db:"quantity"`
	AsOfDate time.Time `json:"as_of_date" db:"as_of_date"`
}

// Lot is a trackable batch of perishable stock. Expiry is batch-specific,
// so expiration risk is scored per lot rather than per product.
type Lot struct {
	LotID      string    `json:"lot_id" db:"lot_id"`
	SKU        string    `json:"sku" db:"sku"`
	Location   string    `json:"location" db:"location"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	ExpiryDate time.Time `json:"expiry_date" db:"expiry_date"`
}

// Value returns the lot quantity valued at the product's unit cost.
func (l Lot) Value(unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromFloat(l.Quantity)).Round(2)
}
