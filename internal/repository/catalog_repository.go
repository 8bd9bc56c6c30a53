package repository

import (
	"context"
	"time"

	"github.com/mealflow/demandplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CatalogRepository resolves the engine's inputs from storage. The engine
// itself only ever sees the returned in-memory collections.
type CatalogRepository interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetRevenueByProduct(ctx context.Context, windowDays int) (map[string]decimal.Decimal, error)
	GetDemandHistory(ctx context.Context, windowDays int) (map[string][]domain.DemandObservation, error)
	GetHorizonPeriods(ctx context.Context, periods int) ([]string, error)
	GetForecast(ctx context.Context, periods []string) ([]domain.ForecastPoint, error)
	GetSupplySchedule(ctx context.Context, periods []string) ([]domain.SupplyEvent, error)
	GetStockSnapshots(ctx context.Context, asOf time.Time) ([]domain.StockSnapshot, error)
	GetLots(ctx context.Context, asOf time.Time) ([]domain.Lot, error)
	GetCurrentOrderQuantities(ctx context.Context) (map[string]float64, error)
}
