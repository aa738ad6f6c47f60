package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type SeedConfig struct {
	// ExtraSales is the number of generated rows appended after the fixed
	// sample set. Zero keeps only the fixed rows.
	ExtraSales int
	// Random seeds the generator so repeated bootstraps produce the same
	// data.
	Random int64
}

var seedProducts = []struct {
	name     string
	category string
	price    float64
}{
	{"Laptop", "Electronics", 1200.00},
	{"Mouse", "Electronics", 25.00},
	{"Keyboard", "Electronics", 75.00},
	{"Monitor", "Electronics", 300.00},
	{"Desk Chair", "Furniture", 150.00},
	{"Coffee Mug", "Kitchenware", 10.00},
	{"Notebook", "Stationery", 5.00},
	{"Pen Set", "Stationery", 12.00},
}

var seedSales = []struct {
	productID   int64
	customerID  int64
	saleDate    string
	quantity    int64
	totalAmount float64
}{
	{1, 101, "2024-06-15", 1, 1200.00},
	{2, 102, "2024-06-16", 2, 50.00},
	{1, 103, "2024-07-01", 1, 1200.00},
	{3, 101, "2024-07-02", 1, 75.00},
	{4, 104, "2024-07-05", 1, 300.00},
	{5, 105, "2024-07-08", 1, 150.00},
	{6, 102, "2024-07-10", 3, 30.00},
	{7, 101, "2024-07-12", 5, 25.00},
	{8, 103, "2024-08-01", 1, 12.00},
	{1, 104, "2024-08-03", 1, 1200.00},
	{2, 105, "2024-08-05", 1, 25.00},
}

// Seed fills an empty database with sample data. Tables that already hold
// rows are left untouched, so repeated startups do not duplicate data.
func Seed(ctx context.Context, db *sql.DB, cfg SeedConfig) error {
	empty, err := tableEmpty(ctx, db, "products")
	if err != nil {
		return err
	}
	if empty {
		for _, p := range seedProducts {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO products (product_name, category, price) VALUES (?, ?, ?)`,
				p.name, p.category, p.price); err != nil {
				return fmt.Errorf("seed product %q: %w", p.name, err)
			}
		}
	}

	empty, err = tableEmpty(ctx, db, "sales")
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	for _, s := range seedSales {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO sales (product_id, customer_id, sale_date, quantity, total_amount) VALUES (?, ?, ?, ?, ?)`,
			s.productID, s.customerID, s.saleDate, s.quantity, s.totalAmount); err != nil {
			return fmt.Errorf("seed sale: %w", err)
		}
	}

	if cfg.ExtraSales <= 0 {
		return nil
	}

	faker := gofakeit.New(cfg.Random)
	for i := 0; i < cfg.ExtraSales; i++ {
		productIndex := faker.Number(0, len(seedProducts)-1)
		quantity := int64(faker.Number(1, 5))
		saleDate := faker.DateRange(
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
		).Format("2006-01-02")
		if _, err := db.ExecContext(ctx,
			`INSERT INTO sales (product_id, customer_id, sale_date, quantity, total_amount) VALUES (?, ?, ?, ?, ?)`,
			int64(productIndex+1),
			int64(faker.Number(101, 150)),
			saleDate,
			quantity,
			float64(quantity)*seedProducts[productIndex].price,
		); err != nil {
			return fmt.Errorf("seed generated sale: %w", err)
		}
	}
	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
		return false, fmt.Errorf("count %s: %w", table, err)
	}
	return count == 0, nil
}
