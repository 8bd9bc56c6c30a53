package domain

import "strings"

// ABCClass is the revenue-contribution class of a product.
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

// XYZClass is the demand-variability class of a product.
type XYZClass string

const (
	XYZClassX XYZClass = "X"
	XYZClassY XYZClass = "Y"
	XYZClassZ XYZClass = "Z"
)

// StockStatus describes the health of a product's current stock position.
// Values are ordered by severity; classification checks run in this order
// and the first match wins.
type StockStatus string

const (
	StatusStockOut StockStatus = "STOCK_OUT"
	StatusLowStock StockStatus = "LOW_STOCK"
	StatusExcess   StockStatus = "EXCESS"
	StatusOptimal  StockStatus = "OPTIMAL"
)

var stockStatusLabels = map[StockStatus]string{
	StatusStockOut: "Stocked out",
	StatusLowStock: "Below safety stock",
	StatusExcess:   "Excess cover",
	StatusOptimal:  "Optimal",
}

// Label returns a human-readable label for the status.
func (s StockStatus) Label() string {
	if label, ok := stockStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// ParseStockStatus returns the status for a given name (case-insensitive).
func ParseStockStatus(name string) (StockStatus, bool) {
	s := StockStatus(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := stockStatusLabels[s]

	return s, ok
}

// RiskZone is the expiration-risk zone of a lot. Severity ranks strictly:
// GREEN < YELLOW < RED < EXPIRED.
type RiskZone string

const (
	ZoneGreen   RiskZone = "GREEN"
	ZoneYellow  RiskZone = "YELLOW"
	ZoneRed     RiskZone = "RED"
	ZoneExpired RiskZone = "EXPIRED"
)

var riskZoneSeverity = map[RiskZone]int{
	ZoneGreen:   0,
	ZoneYellow:  1,
	ZoneRed:     2,
	ZoneExpired: 3,
}

// Severity returns the zone's rank; higher is worse.
func (z RiskZone) Severity() int {
	return riskZoneSeverity[z]
}

// ClearanceAction is the recommended action for a lot in a risk zone.
type ClearanceAction string

const (
	ActionNone       ClearanceAction = "NONE"
	ActionMarkdown   ClearanceAction = "MARKDOWN"
	ActionRunPromo   ClearanceAction = "RUN_PROMO"
	ActionUrgentSale ClearanceAction = "URGENT_SALE"
	ActionDispose    ClearanceAction = "DISPOSE"
)

var clearanceActionLabels = map[ClearanceAction]string{
	ActionNone:       "No action needed",
	ActionMarkdown:   "Apply markdown pricing",
	ActionRunPromo:   "Run a clearance promotion",
	ActionUrgentSale: "Urgent sale before expiry",
	ActionDispose:    "Dispose of stock",
}

// Label returns a human-readable label for the action.
func (a ClearanceAction) Label() string {
	if label, ok := clearanceActionLabels[a]; ok {
		return label
	}

	return "Unknown"
}

// SupplySource identifies where a scheduled receipt comes from.
type SupplySource string

const (
	SourcePurchaseOrder   SupplySource = "PURCHASE_ORDER"
	SourceProductionOrder SupplySource = "PRODUCTION_ORDER"
)

// ParseSupplySource returns the source for a given name (case-insensitive).
func ParseSupplySource(name string) (SupplySource, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PURCHASE_ORDER", "PO":
		return SourcePurchaseOrder, true
	case "PRODUCTION_ORDER", "PRO":
		return SourceProductionOrder, true
	}

	return "", false
}
