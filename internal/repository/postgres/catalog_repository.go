package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mealflow/demandplan/internal/domain"
	"github.com/mealflow/demandplan/internal/repository"
	"github.com/shopspring/decimal"
)

type catalogRepository struct {
	db *DB
}

// NewCatalogRepository returns the postgres-backed catalog repository.
func NewCatalogRepository(db *DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

type productRow struct {
	SKU                       string  `db:"sku"`
	Name                      string  `db:"name"`
	Category                  string  `db:"category"`
	UnitCost                  string  `db:"unit_cost"`
	UnitPrice                 string  `db:"unit_price"`
	UnitOfMeasure             string  `db:"unit_of_measure"`
	ShelfLifeDays             *int    `db:"shelf_life_days"`
	ReplenishmentLeadTimeDays float64 `db:"replenishment_lead_time_days"`
	OrderingCostPerOrder      string  `db:"ordering_cost_per_order"`
	HoldingCostRate           float64 `db:"holding_cost_rate"`
}

func (r *catalogRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT sku, name, category,
		       unit_cost::text AS unit_cost,
		       unit_price::text AS unit_price,
		       unit_of_measure, shelf_life_days,
		       replenishment_lead_time_days,
		       ordering_cost_per_order::text AS ordering_cost_per_order,
		       holding_cost_rate
		FROM products
		WHERE active = TRUE
		ORDER BY sku
	`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		unitCost, err := decimal.NewFromString(row.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid unit cost %q: %w", row.SKU, row.UnitCost, err)
		}
		unitPrice, err := decimal.NewFromString(row.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid unit price %q: %w", row.SKU, row.UnitPrice, err)
		}
		orderingCost, err := decimal.NewFromString(row.OrderingCostPerOrder)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid ordering cost %q: %w", row.SKU, row.OrderingCostPerOrder, err)
		}

		products = append(products, domain.Product{
			SKU:                       row.SKU,
			Name:                      row.Name,
			Category:                  row.Category,
			UnitCost:                  unitCost,
			UnitPrice:                 unitPrice,
			UnitOfMeasure:             row.UnitOfMeasure,
			ShelfLifeDays:             row.ShelfLifeDays,
			ReplenishmentLeadTimeDays: row.ReplenishmentLeadTimeDays,
			OrderingCostPerOrder:      orderingCost,
			HoldingCostRate:           row.HoldingCostRate,
		})
	}

	return products, nil
}

func (r *catalogRepository) GetRevenueByProduct(ctx context.Context, windowDays int) (map[string]decimal.Decimal, error) {
	if windowDays <= 0 {
		windowDays = 365
	}

	query := `
		SELECT sku, COALESCE(SUM(net_amount), 0)::text AS revenue
		FROM sales
		WHERE sale_date >= NOW() - ($1 || ' days')::interval
		GROUP BY sku
	`

	type revenueRow struct {
		SKU     string `db:"sku"`
		Revenue string `db:"revenue"`
	}

	var rows []revenueRow
	if err := r.db.SelectContext(ctx, &rows, query, windowDays); err != nil {
		return nil, fmt.Errorf("error getting revenue by product: %w", err)
	}

	revenue := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		value, err := decimal.NewFromString(row.Revenue)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid revenue %q: %w", row.SKU, row.Revenue, err)
		}
		revenue[row.SKU] = value
	}

	return revenue, nil
}

func (r *catalogRepository) GetDemandHistory(ctx context.Context, windowDays int) (map[string][]domain.DemandObservation, error) {
	if windowDays <= 0 {
		windowDays = 180
	}

	// Daily demand buckets; the engine normalizes per-day rates itself.
	query := `
		SELECT sku,
		       date_trunc('day', sale_date)                    AS period_start,
		       date_trunc('day', sale_date) + INTERVAL '1 day' AS period_end,
		       SUM(quantity)                                   AS quantity
		FROM sales
		WHERE sale_date >= NOW() - ($1 || ' days')::interval
		GROUP BY sku, date_trunc('day', sale_date)
		ORDER BY sku, period_start
	`

	var observations []domain.DemandObservation
	if err := r.db.SelectContext(ctx, &observations, query, windowDays); err != nil {
		return nil, fmt.Errorf("error getting demand history: %w", err)
	}

	history := make(map[string][]domain.DemandObservation)
	for _, obs := range observations {
		history[obs.SKU] = append(history[obs.SKU], obs)
	}

	return history, nil
}

func (r *catalogRepository) GetHorizonPeriods(ctx context.Context, periods int) ([]string, error) {
	if periods <= 0 {
		periods = 12
	}

	query := `
		SELECT DISTINCT period_label
		FROM demand_forecasts
		ORDER BY period_label
		LIMIT $1
	`

	var labels []string
	if err := r.db.SelectContext(ctx, &labels, query, periods); err != nil {
		return nil, fmt.Errorf("error getting horizon periods: %w", err)
	}

	return labels, nil
}

func (r *catalogRepository) GetForecast(ctx context.Context, periods []string) ([]domain.ForecastPoint, error) {
	if len(periods) == 0 {
		return nil, nil
	}

	query := `
		SELECT sku, period_label, quantity
		FROM demand_forecasts
		WHERE period_label = ANY($1)
		ORDER BY sku, period_label
	`

	var points []domain.ForecastPoint
	if err := r.db.SelectContext(ctx, &points, query, pq.Array(periods)); err != nil {
		return nil, fmt.Errorf("error getting forecast: %w", err)
	}

	return points, nil
}

func (r *catalogRepository) GetSupplySchedule(ctx context.Context, periods []string) ([]domain.SupplyEvent, error) {
	if len(periods) == 0 {
		return nil, nil
	}

	query := `
		SELECT sku, period_label, quantity, source
		FROM supply_events
		WHERE period_label = ANY($1)
		ORDER BY sku, period_label
	`

	var events []domain.SupplyEvent
	if err := r.db.SelectContext(ctx, &events, query, pq.Array(periods)); err != nil {
		return nil, fmt.Errorf("error getting supply schedule: %w", err)
	}

	return events, nil
}

func (r *catalogRepository) GetStockSnapshots(ctx context.Context, asOf time.Time) ([]domain.StockSnapshot, error) {
	// Latest snapshot per product/location at or before the as-of date.
	query := `
		SELECT DISTINCT ON (sku, location)
		       sku, location, quantity, as_of_date
		FROM stock_snapshots
		WHERE as_of_date <= $1
		ORDER BY sku, location, as_of_date DESC
	`

	var snapshots []domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, asOf); err != nil {
		return nil, fmt.Errorf("error getting stock snapshots: %w", err)
	}

	return snapshots, nil
}

func (r *catalogRepository) GetLots(ctx context.Context, asOf time.Time) ([]domain.Lot, error) {
	query := `
		SELECT lot_id, sku, COALESCE(location, '') AS location, quantity, expiry_date
		FROM lots
		WHERE quantity > 0
		ORDER BY expiry_date, lot_id
	`

	var lots []domain.Lot
	if err := r.db.SelectContext(ctx, &lots, query); err != nil {
		return nil, fmt.Errorf("error getting lots: %w", err)
	}

	return lots, nil
}

func (r *catalogRepository) GetCurrentOrderQuantities(ctx context.Context) (map[string]float64, error) {
	// Average historical order size stands in for the current order policy.
	query := `
		SELECT sku, AVG(quantity) AS avg_quantity
		FROM purchase_orders
		GROUP BY sku
	`

	type orderRow struct {
		SKU         string  `db:"sku"`
		AvgQuantity float64 `db:"avg_quantity"`
	}

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting current order quantities: %w", err)
	}

	quantities := make(map[string]float64, len(rows))
	for _, row := range rows {
		quantities[row.SKU] = row.AvgQuantity
	}

	return quantities, nil
}
