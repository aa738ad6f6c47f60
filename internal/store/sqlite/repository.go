package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askdb/askdb/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store db: %w", err)
	}
	return nil
}

func (r *Repository) AddProduct(ctx context.Context, in store.ProductInput) (store.Product, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO products (product_name, category, price) VALUES (?, ?, ?)`,
		in.ProductName, in.Category, in.Price)
	if err != nil {
		return store.Product{}, fmt.Errorf("add product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return store.Product{}, fmt.Errorf("add product id: %w", err)
	}
	return store.Product{ProductID: id, ProductName: in.ProductName, Category: in.Category, Price: in.Price}, nil
}

func (r *Repository) GetProduct(ctx context.Context, productID int64) (store.Product, error) {
	var product store.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT product_id, product_name, COALESCE(category, ''), price FROM products WHERE product_id = ?`,
		productID).Scan(&product.ProductID, &product.ProductName, &product.Category, &product.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Product{}, store.ErrNotFound
		}
		return store.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]store.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, product_name, COALESCE(category, ''), price FROM products ORDER BY product_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]store.Product, 0)
	for rows.Next() {
		var product store.Product
		if err := rows.Scan(&product.ProductID, &product.ProductName, &product.Category, &product.Price); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, productID int64, in store.ProductInput) (store.Product, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET product_name = ?, category = ?, price = ? WHERE product_id = ?`,
		in.ProductName, in.Category, in.Price, productID)
	if err != nil {
		return store.Product{}, fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return store.Product{}, fmt.Errorf("update product affected: %w", err)
	}
	if affected == 0 {
		return store.Product{}, store.ErrNotFound
	}
	return store.Product{ProductID: productID, ProductName: in.ProductName, Category: in.Category, Price: in.Price}, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, productID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) AddSale(ctx context.Context, in store.SaleInput) (store.Sale, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (product_id, customer_id, sale_date, quantity, total_amount) VALUES (?, ?, ?, ?, ?)`,
		in.ProductID, in.CustomerID, in.SaleDate, in.Quantity, in.TotalAmount)
	if err != nil {
		return store.Sale{}, fmt.Errorf("add sale: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return store.Sale{}, fmt.Errorf("add sale id: %w", err)
	}
	return store.Sale{
		SaleID:      id,
		ProductID:   in.ProductID,
		CustomerID:  in.CustomerID,
		SaleDate:    in.SaleDate,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
	}, nil
}

func (r *Repository) GetSale(ctx context.Context, saleID int64) (store.Sale, error) {
	var sale store.Sale
	err := r.db.QueryRowContext(ctx,
		`SELECT sale_id, product_id, customer_id, sale_date, quantity, total_amount FROM sales WHERE sale_id = ?`,
		saleID).Scan(&sale.SaleID, &sale.ProductID, &sale.CustomerID, &sale.SaleDate, &sale.Quantity, &sale.TotalAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Sale{}, store.ErrNotFound
		}
		return store.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (r *Repository) ListSales(ctx context.Context) ([]store.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sale_id, product_id, customer_id, sale_date, quantity, total_amount FROM sales ORDER BY sale_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sales := make([]store.Sale, 0)
	for rows.Next() {
		var sale store.Sale
		if err := rows.Scan(&sale.SaleID, &sale.ProductID, &sale.CustomerID, &sale.SaleDate, &sale.Quantity, &sale.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}
	return sales, nil
}

func (r *Repository) UpdateSale(ctx context.Context, saleID int64, in store.SaleInput) (store.Sale, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales SET product_id = ?, customer_id = ?, sale_date = ?, quantity = ?, total_amount = ? WHERE sale_id = ?`,
		in.ProductID, in.CustomerID, in.SaleDate, in.Quantity, in.TotalAmount, saleID)
	if err != nil {
		return store.Sale{}, fmt.Errorf("update sale: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return store.Sale{}, fmt.Errorf("update sale affected: %w", err)
	}
	if affected == 0 {
		return store.Sale{}, store.ErrNotFound
	}
	return store.Sale{
		SaleID:      saleID,
		ProductID:   in.ProductID,
		CustomerID:  in.CustomerID,
		SaleDate:    in.SaleDate,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
	}, nil
}

func (r *Repository) DeleteSale(ctx context.Context, saleID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE sale_id = ?`, saleID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sale affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
