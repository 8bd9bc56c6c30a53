package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "seed-db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newFileFlag(usage, value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "file",
		Usage: usage,
		Value: value,
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load planning data CSVs into the database",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "products",
				Usage:  "Load the product catalog",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Products CSV file", "./data/seeds/products.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedProducts,
			},
			{
				Name:   "sales",
				Usage:  "Load historical sales (demand observations and revenue)",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Sales CSV file", "./data/seeds/sales.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedSales,
			},
			{
				Name:   "forecast",
				Usage:  "Load demand forecast points",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Forecast CSV file", "./data/seeds/forecast.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedForecast,
			},
			{
				Name:   "supply",
				Usage:  "Load the scheduled supply events",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Supply CSV file", "./data/seeds/supply.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedSupply,
			},
			{
				Name:   "stock",
				Usage:  "Load stock snapshots",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Stock CSV file", "./data/seeds/stock.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedStock,
			},
			{
				Name:   "lots",
				Usage:  "Load perishable lots",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag("Lots CSV file", "./data/seeds/lots.csv")},
				Before: initDB,
				After:  closeDB,
				Action: seedLots,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
