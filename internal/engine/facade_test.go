package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/mealflow/demandplan/internal/domain"
	"github.com/shopspring/decimal"
)

// reportFixture covers both product archetypes: a stable non-perishable
// top seller and a perishable slow mover with expiring lots.
func reportFixture() Inputs {
	shelfLife := 10
	espresso := domain.Product{
		SKU:                       "ESP-250",
		Name:                      "Espresso Beans 250g",
		Category:                  "beverages",
		UnitCost:                  decimal.NewFromFloat(12.5),
		UnitPrice:                 decimal.NewFromInt(25),
		OrderingCostPerOrder:      decimal.NewFromInt(50),
		HoldingCostRate:           0.2,
		ReplenishmentLeadTimeDays: 9,
	}
	yogurt := domain.Product{
		SKU:                       "YOG-150",
		Name:                      "Greek Yogurt 150g",
		Category:                  "dairy",
		UnitCost:                  decimal.NewFromInt(3),
		UnitPrice:                 decimal.NewFromInt(6),
		OrderingCostPerOrder:      decimal.NewFromInt(20),
		HoldingCostRate:           0.25,
		ShelfLifeDays:             &shelfLife,
		ReplenishmentLeadTimeDays: 5,
	}

	asOf := day(0)
	horizon := []string{"2026-W35", "2026-W36"}

	return Inputs{
		Products: []domain.Product{espresso, yogurt},
		Revenue: map[string]decimal.Decimal{
			"ESP-250": decimal.NewFromInt(800),
			"YOG-150": decimal.NewFromInt(200),
		},
		DemandHistory: map[string][]domain.DemandObservation{
			"ESP-250": dailyObservations("ESP-250", 10, 10, 10, 10),
		},
		Forecast: []domain.ForecastPoint{
			{SKU: "ESP-250", PeriodLabel: "2026-W35", Quantity: 40},
			{SKU: "ESP-250", PeriodLabel: "2026-W36", Quantity: 40},
			{SKU: "YOG-150", PeriodLabel: "2026-W35", Quantity: 20},
		},
		Snapshots: []domain.StockSnapshot{
			{SKU: "ESP-250", Location: "main", Quantity: 100, AsOfDate: asOf},
			{SKU: "YOG-150", Location: "main", Quantity: 5, AsOfDate: asOf},
		},
		Lots: []domain.Lot{
			lotExpiring("LOT-RED", "YOG-150", 10, asOf, 2),
			lotExpiring("LOT-EXPIRED", "YOG-150", 4, asOf, -1),
			lotExpiring("LOT-YELLOW", "YOG-150", 6, asOf, 8),
			lotExpiring("LOT-DRY", "ESP-250", 30, asOf, 3),
		},
		CurrentOrderQty: map[string]float64{"ESP-250": 500},
		Horizon:         horizon,
		AsOf:            asOf,
	}
}

func TestBuildReport(t *testing.T) {
	report, err := BuildReport(context.Background(), reportFixture(), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Classifications) != 2 {
		t.Fatalf("expected 2 classifications, got %d", len(report.Classifications))
	}
	if got := resultFor(t, report.Classifications, "ESP-250").ABCClass; got != domain.ABCClassA {
		t.Errorf("ESP-250: expected class A, got %s", got)
	}
	if got := resultFor(t, report.Classifications, "YOG-150").ABCClass; got != domain.ABCClassC {
		t.Errorf("YOG-150: expected class C, got %s", got)
	}

	if len(report.MatrixDistribution) != 9 {
		t.Errorf("expected the full 9-cell matrix, got %d cells", len(report.MatrixDistribution))
	}

	// EOQ table: applicable rows first, ordered by savings descending.
	if len(report.EOQTable) != 2 {
		t.Fatalf("expected 2 EOQ rows, got %d", len(report.EOQTable))
	}
	if !report.EOQTable[0].Applicable || report.EOQTable[0].SKU != "ESP-250" {
		t.Errorf("expected applicable ESP-250 row first, got %+v", report.EOQTable[0])
	}
	if report.EOQTable[1].Applicable {
		t.Errorf("YOG-150 has no demand history, its EOQ row should be inapplicable")
	}

	if len(report.Trajectories) != 2 {
		t.Fatalf("expected one trajectory per snapshot, got %d", len(report.Trajectories))
	}
}

func TestBuildReport_ActionQueueMostUrgentFirst(t *testing.T) {
	report, err := BuildReport(context.Background(), reportFixture(), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	// The non-perishable lot is skipped, leaving the three yogurt lots.
	if len(report.ActionQueue) != 3 {
		t.Fatalf("expected 3 assessments, got %d", len(report.ActionQueue))
	}

	wantOrder := []string{"LOT-EXPIRED", "LOT-RED", "LOT-YELLOW"}
	for i, want := range wantOrder {
		if got := report.ActionQueue[i].LotID; got != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got)
		}
	}

	prev := report.ActionQueue[0].DaysUntilExpiry
	for _, a := range report.ActionQueue[1:] {
		if a.DaysUntilExpiry < prev {
			t.Fatalf("action queue not sorted by days until expiry: %v after %v", a.DaysUntilExpiry, prev)
		}
		prev = a.DaysUntilExpiry
	}
}

func TestBuildReport_Summary(t *testing.T) {
	report, err := BuildReport(context.Background(), reportFixture(), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	s := report.Summary
	if s.ProductsTracked != 2 {
		t.Errorf("expected 2 products tracked, got %d", s.ProductsTracked)
	}

	// Espresso trajectory is OPTIMAL, yogurt goes to STOCK_OUT.
	if s.OptimalItems != 1 {
		t.Errorf("expected 1 optimal item, got %d", s.OptimalItems)
	}
	if s.ItemsRequiringAction != 1 {
		t.Errorf("expected 1 item requiring action, got %d", s.ItemsRequiringAction)
	}
	if s.CoveragePercent != 50 {
		t.Errorf("expected 50%% coverage, got %v", s.CoveragePercent)
	}

	// 10 units of yogurt at cost 3 are in the red zone.
	if want := decimal.NewFromInt(30); !s.ImmediateValueAtRisk.Equal(want) {
		t.Errorf("expected immediate value at risk %s, got %s", want, s.ImmediateValueAtRisk)
	}
	// The yellow lot tips into red within the 14 day projection horizon.
	if want := decimal.NewFromInt(18); !s.ProjectedValueAtRisk.Equal(want) {
		t.Errorf("expected projected value at risk %s, got %s", want, s.ProjectedValueAtRisk)
	}
	if want := decimal.NewFromInt(12); !s.ExpiredValue.Equal(want) {
		t.Errorf("expected expired value %s, got %s", want, s.ExpiredValue)
	}

	// Total savings equals the sum of positive, applicable EOQ rows.
	wantSavings := decimal.Zero
	for _, eoq := range report.EOQTable {
		if eoq.Applicable && !eoq.CurrentPolicyOptimal && eoq.PotentialSavings.IsPositive() {
			wantSavings = wantSavings.Add(eoq.PotentialSavings)
		}
	}
	if !wantSavings.IsPositive() {
		t.Fatal("fixture should produce positive savings")
	}
	if !s.PotentialSavings.Equal(wantSavings) {
		t.Errorf("expected potential savings %s, got %s", wantSavings, s.PotentialSavings)
	}
}

func TestBuildReport_SyntheticSnapshotForUntrackedProduct(t *testing.T) {
	in := reportFixture()
	// Drop the yogurt snapshot entirely.
	in.Snapshots = in.Snapshots[:1]

	report, err := BuildReport(context.Background(), in, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	var yogurt *domain.TrajectoryResult
	for i := range report.Trajectories {
		if report.Trajectories[i].SKU == "YOG-150" {
			yogurt = &report.Trajectories[i]
		}
	}
	if yogurt == nil {
		t.Fatal("product without a snapshot should still get a trajectory")
	}
	if yogurt.Location != "default" {
		t.Errorf("expected synthetic default location, got %q", yogurt.Location)
	}
	if yogurt.Status != domain.StatusStockOut {
		t.Errorf("zero stock with forecast demand should be STOCK_OUT, got %s", yogurt.Status)
	}
}

func TestBuildReport_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Inputs)
		wantMsg string
	}{
		{
			"empty horizon",
			func(in *Inputs) { in.Horizon = nil },
			"horizon",
		},
		{
			"negative unit cost",
			func(in *Inputs) { in.Products[0].UnitCost = decimal.NewFromInt(-1) },
			"ESP-250",
		},
		{
			"missing sku",
			func(in *Inputs) { in.Products[1].SKU = "" },
			"sku must not be empty",
		},
		{
			"negative lead time",
			func(in *Inputs) { in.Products[0].ReplenishmentLeadTimeDays = -3 },
			"ESP-250",
		},
		{
			"negative snapshot quantity",
			func(in *Inputs) { in.Snapshots[1].Quantity = -5 },
			"YOG-150",
		},
		{
			"negative lot quantity",
			func(in *Inputs) { in.Lots[0].Quantity = -1 },
			"LOT-RED",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := reportFixture()
			tc.mutate(&in)

			_, err := BuildReport(context.Background(), in, DefaultParams())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error mentioning %q, got %q", tc.wantMsg, err)
			}
		})
	}
}

func TestBuildReport_InvalidParams(t *testing.T) {
	params := DefaultParams()
	params.PeriodDays = 0

	if _, err := BuildReport(context.Background(), reportFixture(), params); err == nil {
		t.Fatal("expected error for invalid parameters")
	}
}

func TestBuildReport_EmptyCatalog(t *testing.T) {
	report, err := BuildReport(context.Background(), Inputs{AsOf: day(0)}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.ProductsTracked != 0 {
		t.Errorf("expected 0 products tracked, got %d", report.Summary.ProductsTracked)
	}
	if len(report.Classifications) != 0 || len(report.Trajectories) != 0 || len(report.ActionQueue) != 0 {
		t.Error("empty catalog should produce an empty report")
	}
	if !report.Summary.PotentialSavings.IsZero() {
		t.Errorf("expected zero savings, got %s", report.Summary.PotentialSavings)
	}
}

func TestBuildReport_DoesNotMutateInputs(t *testing.T) {
	in := reportFixture()
	originalFirst := in.Products[0].SKU
	originalLots := len(in.Lots)

	if _, err := BuildReport(context.Background(), in, DefaultParams()); err != nil {
		t.Fatal(err)
	}

	if in.Products[0].SKU != originalFirst {
		t.Error("product slice was reordered")
	}
	if len(in.Lots) != originalLots {
		t.Error("lots slice was modified")
	}
}
