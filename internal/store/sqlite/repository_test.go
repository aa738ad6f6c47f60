package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/askdb/askdb/internal/store"
)

func newSQLMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestAddProduct(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO products (product_name, category, price) VALUES (?, ?, ?)`)).
		WithArgs("Laptop", "Electronics", 1200.0).
		WillReturnResult(sqlmock.NewResult(9, 1))

	product, err := repo.AddProduct(context.Background(), store.ProductInput{
		ProductName: "Laptop",
		Category:    "Electronics",
		Price:       1200.0,
	})
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if product.ProductID != 9 {
		t.Fatalf("ProductID = %d", product.ProductID)
	}
	assertSQLMock(t, mock)
}

func TestGetProductReturnsNotFound(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, product_name, COALESCE(category, ''), price FROM products WHERE product_id = ?`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "category", "price"}))

	_, err := repo.GetProduct(context.Background(), 42)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProduct() error = %v, want ErrNotFound", err)
	}
	assertSQLMock(t, mock)
}

func TestListProducts(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, product_name, COALESCE(category, ''), price FROM products ORDER BY product_id ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "product_name", "category", "price"}).
			AddRow(int64(1), "Laptop", "Electronics", 1200.0).
			AddRow(int64(2), "Mouse", "Electronics", 25.0))

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len(products) = %d", len(products))
	}
	if products[1].ProductName != "Mouse" {
		t.Fatalf("products[1] = %+v", products[1])
	}
	assertSQLMock(t, mock)
}

func TestUpdateProductNotFound(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET product_name = ?, category = ?, price = ? WHERE product_id = ?`)).
		WithArgs("Laptop", "Electronics", 999.0, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateProduct(context.Background(), 42, store.ProductInput{
		ProductName: "Laptop",
		Category:    "Electronics",
		Price:       999.0,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateProduct() error = %v, want ErrNotFound", err)
	}
	assertSQLMock(t, mock)
}

func TestDeleteProduct(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products WHERE product_id = ?`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteProduct(context.Background(), 3); err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestAddSale(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sales (product_id, customer_id, sale_date, quantity, total_amount) VALUES (?, ?, ?, ?, ?)`)).
		WithArgs(int64(1), int64(101), "2024-08-10", int64(2), 2400.0).
		WillReturnResult(sqlmock.NewResult(12, 1))

	sale, err := repo.AddSale(context.Background(), store.SaleInput{
		ProductID:   1,
		CustomerID:  101,
		SaleDate:    "2024-08-10",
		Quantity:    2,
		TotalAmount: 2400.0,
	})
	if err != nil {
		t.Fatalf("AddSale() error = %v", err)
	}
	if sale.SaleID != 12 {
		t.Fatalf("SaleID = %d", sale.SaleID)
	}
	assertSQLMock(t, mock)
}

func TestDeleteSaleNotFound(t *testing.T) {
	repo, mock := newSQLMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sales WHERE sale_id = ?`)).
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteSale(context.Background(), 77); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("DeleteSale() error = %v, want ErrNotFound", err)
	}
	assertSQLMock(t, mock)
}

func TestSeedSkipsPopulatedTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(8)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM sales`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(11)))

	if err := Seed(context.Background(), db, SeedConfig{ExtraSales: 5, Random: 1}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	assertSQLMock(t, mock)
}
