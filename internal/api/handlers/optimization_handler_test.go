package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mealflow/demandplan/internal/cache"
	"github.com/mealflow/demandplan/internal/config"
	"github.com/mealflow/demandplan/internal/domain"
	"github.com/mealflow/demandplan/internal/service"
	"github.com/shopspring/decimal"
)

type stubRepo struct{}

func (stubRepo) GetProducts(ctx context.Context) ([]domain.Product, error) {
	shelfLife := 10
	return []domain.Product{
		{
			SKU:                       "ESP-250",
			Name:                      "Espresso Beans 250g",
			Category:                  "beverages",
			UnitCost:                  decimal.NewFromFloat(12.5),
			OrderingCostPerOrder:      decimal.NewFromInt(50),
			HoldingCostRate:           0.2,
			ReplenishmentLeadTimeDays: 9,
		},
		{
			SKU:                       "YOG-150",
			Name:                      "Greek Yogurt 150g",
			Category:                  "dairy",
			UnitCost:                  decimal.NewFromInt(3),
			OrderingCostPerOrder:      decimal.NewFromInt(20),
			HoldingCostRate:           0.25,
			ShelfLifeDays:             &shelfLife,
			ReplenishmentLeadTimeDays: 5,
		},
	}, nil
}

func (stubRepo) GetRevenueByProduct(ctx context.Context, windowDays int) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{
		"ESP-250": decimal.NewFromInt(800),
		"YOG-150": decimal.NewFromInt(200),
	}, nil
}

func (stubRepo) GetDemandHistory(ctx context.Context, windowDays int) (map[string][]domain.DemandObservation, error) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	history := make(map[string][]domain.DemandObservation)
	for d := 0; d < 5; d++ {
		history["ESP-250"] = append(history["ESP-250"], domain.DemandObservation{
			SKU:         "ESP-250",
			PeriodStart: start.AddDate(0, 0, d),
			PeriodEnd:   start.AddDate(0, 0, d+1),
			Quantity:    10,
		})
	}
	return history, nil
}

func (stubRepo) GetHorizonPeriods(ctx context.Context, periods int) ([]string, error) {
	return []string{"2026-W35", "2026-W36"}, nil
}

func (stubRepo) GetForecast(ctx context.Context, periods []string) ([]domain.ForecastPoint, error) {
	return []domain.ForecastPoint{
		{SKU: "ESP-250", PeriodLabel: "2026-W35", Quantity: 40},
		{SKU: "ESP-250", PeriodLabel: "2026-W36", Quantity: 40},
		{SKU: "YOG-150", PeriodLabel: "2026-W35", Quantity: 20},
	}, nil
}

func (stubRepo) GetSupplySchedule(ctx context.Context, periods []string) ([]domain.SupplyEvent, error) {
	return nil, nil
}

func (stubRepo) GetStockSnapshots(ctx context.Context, asOf time.Time) ([]domain.StockSnapshot, error) {
	return []domain.StockSnapshot{
		{SKU: "ESP-250", Location: "main", Quantity: 100, AsOfDate: asOf},
		{SKU: "YOG-150", Location: "main", Quantity: 5, AsOfDate: asOf},
	}, nil
}

func (stubRepo) GetLots(ctx context.Context, asOf time.Time) ([]domain.Lot, error) {
	return []domain.Lot{
		{LotID: "LOT-1", SKU: "YOG-150", Location: "main", Quantity: 10, ExpiryDate: asOf.Add(48 * time.Hour)},
	}, nil
}

func (stubRepo) GetCurrentOrderQuantities(ctx context.Context) (map[string]float64, error) {
	return map[string]float64{"ESP-250": 500}, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewOptimizationService(stubRepo{}, cache.NewNoopReportCache(), config.EngineConfig{
		ServiceLevelZ:         1.65,
		SafetyBufferDays:      5,
		ABCCutoffA:            0.80,
		ABCCutoffB:            0.95,
		XYZCutoffX:            0.5,
		XYZCutoffY:            1.0,
		ExcessCoverageDays:    90,
		PeriodDays:            7,
		MinSellThroughDays:    3,
		ProjectionHorizonDays: 14,
		HorizonPeriods:        12,
		HistoryWindowDays:     180,
	})
	handler := NewOptimizationHandler(svc)

	router := gin.New()
	group := router.Group("/api/v1/optimization")
	group.GET("/report", handler.GetReport)
	group.GET("/classification", handler.GetClassification)
	group.GET("/eoq", handler.GetEOQ)
	group.GET("/trajectory/:sku", handler.GetTrajectory)
	group.GET("/expiration", handler.GetExpiration)
	group.GET("/summary", handler.GetSummary)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetReport(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, "/api/v1/optimization/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.OptimizationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Classifications) != 2 {
		t.Errorf("expected 2 classifications, got %d", len(report.Classifications))
	}
	if len(report.Trajectories) != 2 {
		t.Errorf("expected 2 trajectories, got %d", len(report.Trajectories))
	}
}

func TestGetReport_FilterByCategory(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, "/api/v1/optimization/report?category=dairy")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report domain.OptimizationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Trajectories) != 1 || report.Trajectories[0].SKU != "YOG-150" {
		t.Errorf("expected only the dairy trajectory, got %+v", report.Trajectories)
	}
	// Other report sections are not filtered.
	if len(report.Classifications) != 2 {
		t.Errorf("classification table should stay complete, got %d rows", len(report.Classifications))
	}
}

func TestGetReport_UnknownStatusFilter(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, "/api/v1/optimization/report?status=BANANAS")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParamOverrides(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		name string
		path string
		want int
	}{
		{"valid override", "/api/v1/optimization/summary?service_level_z=2.05", http.StatusOK},
		{"inverted abc cutoffs", "/api/v1/optimization/summary?abc_cutoff_a=0.95&abc_cutoff_b=0.80", http.StatusBadRequest},
		{"malformed number", "/api/v1/optimization/summary?excess_coverage_days=lots", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, tc.path)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetTrajectory(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, "/api/v1/optimization/trajectory/ESP-250")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, "/api/v1/optimization/trajectory/NO-SUCH-SKU")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown SKU, got %d", rec.Code)
	}
}

func TestGetExpiration(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, "/api/v1/optimization/expiration")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		ActionQueue          []domain.RiskAssessment `json:"action_queue"`
		ImmediateValueAtRisk decimal.Decimal         `json:"immediate_value_at_risk"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}

	// The yogurt lot expires in 2 days against a 5 day lead time.
	if len(payload.ActionQueue) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(payload.ActionQueue))
	}
	if payload.ActionQueue[0].Zone != domain.ZoneRed {
		t.Errorf("expected red zone, got %s", payload.ActionQueue[0].Zone)
	}
	if want := decimal.NewFromInt(30); !payload.ImmediateValueAtRisk.Equal(want) {
		t.Errorf("expected immediate value at risk %s, got %s", want, payload.ImmediateValueAtRisk)
	}
}
