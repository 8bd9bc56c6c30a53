package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// readCSV opens a CSV file, validates its header and streams every record
// through fn. The header columns must match exactly, in order.
func readCSV(path string, header []string, fn func(record []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	first, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if len(first) != len(header) {
		return 0, fmt.Errorf("%s: expected %d columns, got %d", path, len(header), len(first))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), col) {
			return 0, fmt.Errorf("%s: expected column %q at position %d, got %q", path, col, i, first[i])
		}
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("%s: failed to read record: %w", path, err)
		}
		if err := fn(record); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func parseFloatField(path, column, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid %s %q: %w", path, column, raw, err)
	}
	return value, nil
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func seedProducts(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"sku", "name", "category", "unit_cost", "unit_price", "unit_of_measure",
		"shelf_life_days", "replenishment_lead_time_days", "ordering_cost_per_order", "holding_cost_rate"}

	count, err := readCSV(path, header, func(record []string) error {
		leadTime, err := parseFloatField(path, "replenishment_lead_time_days", record[7])
		if err != nil {
			return err
		}
		holdingRate, err := parseFloatField(path, "holding_cost_rate", record[9])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO products (sku, name, category, unit_cost, unit_price, unit_of_measure,
			                      shelf_life_days, replenishment_lead_time_days, ordering_cost_per_order,
			                      holding_cost_rate, active)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::int, $8, $9, $10, TRUE)
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				unit_cost = EXCLUDED.unit_cost,
				unit_price = EXCLUDED.unit_price,
				unit_of_measure = EXCLUDED.unit_of_measure,
				shelf_life_days = EXCLUDED.shelf_life_days,
				replenishment_lead_time_days = EXCLUDED.replenishment_lead_time_days,
				ordering_cost_per_order = EXCLUDED.ordering_cost_per_order,
				holding_cost_rate = EXCLUDED.holding_cost_rate
		`, record[0], record[1], record[2], record[3], record[4], record[5],
			strings.TrimSpace(record[6]), leadTime, record[8], holdingRate)
		if err != nil {
			return fmt.Errorf("failed to insert product %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d products from %s", count, path)
	return nil
}

func seedSales(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"sku", "sale_date", "quantity", "net_amount"}

	count, err := readCSV(path, header, func(record []string) error {
		quantity, err := parseFloatField(path, "quantity", record[2])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO sales (sku, sale_date, quantity, net_amount)
			VALUES ($1, $2::timestamptz, $3, $4)
		`, record[0], record[1], quantity, record[3])
		if err != nil {
			return fmt.Errorf("failed to insert sale for %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d sales records from %s", count, path)
	return nil
}

func seedForecast(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"sku", "period_label", "quantity"}

	count, err := readCSV(path, header, func(record []string) error {
		quantity, err := parseFloatField(path, "quantity", record[2])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO demand_forecasts (sku, period_label, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (sku, period_label) DO UPDATE SET quantity = EXCLUDED.quantity
		`, record[0], record[1], quantity)
		if err != nil {
			return fmt.Errorf("failed to insert forecast for %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d forecast points from %s", count, path)
	return nil
}

func seedSupply(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"sku", "period_label", "quantity", "source"}

	count, err := readCSV(path, header, func(record []string) error {
		quantity, err := parseFloatField(path, "quantity", record[2])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO supply_events (sku, period_label, quantity, source)
			VALUES ($1, $2, $3, $4)
		`, record[0], record[1], quantity, strings.ToUpper(strings.TrimSpace(record[3])))
		if err != nil {
			return fmt.Errorf("failed to insert supply event for %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d supply events from %s", count, path)
	return nil
}

func seedStock(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"sku", "location", "quantity", "as_of_date"}

	count, err := readCSV(path, header, func(record []string) error {
		quantity, err := parseFloatField(path, "quantity", record[2])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO stock_snapshots (sku, location, quantity, as_of_date)
			VALUES ($1, $2, $3, $4::timestamptz)
		`, record[0], record[1], quantity, record[3])
		if err != nil {
			return fmt.Errorf("failed to insert stock snapshot for %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d stock snapshots from %s", count, path)
	return nil
}

func seedLots(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	header := []string{"lot_id", "sku", "location", "quantity", "expiry_date"}

	count, err := readCSV(path, header, func(record []string) error {
		quantity, err := parseFloatField(path, "quantity", record[3])
		if err != nil {
			return err
		}

		_, err = db.ExecContext(c.Context, `
			INSERT INTO lots (lot_id, sku, location, quantity, expiry_date)
			VALUES ($1, $2, $3, $4, $5::timestamptz)
			ON CONFLICT (lot_id) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				expiry_date = EXCLUDED.expiry_date
		`, record[0], record[1], nullIfEmpty(record[2]), quantity, record[4])
		if err != nil {
			return fmt.Errorf("failed to insert lot %s: %w", record[0], err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seeded %d lots from %s", count, path)
	return nil
}
