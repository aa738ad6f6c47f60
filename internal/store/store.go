// Package store defines the records and operations of the sales database.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type Product struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

type Sale struct {
	SaleID      int64   `json:"sale_id"`
	ProductID   int64   `json:"product_id"`
	CustomerID  int64   `json:"customer_id"`
	SaleDate    string  `json:"sale_date"`
	Quantity    int64   `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
}

type ProductInput struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
}

type SaleInput struct {
	ProductID   int64   `json:"product_id"`
	CustomerID  int64   `json:"customer_id"`
	SaleDate    string  `json:"sale_date"`
	Quantity    int64   `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
}

// Repository is the CRUD surface over products and sales. Every statement
// is parameterized; none of these operations carry decision logic.
type Repository interface {
	AddProduct(ctx context.Context, in ProductInput) (Product, error)
	GetProduct(ctx context.Context, productID int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, productID int64, in ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, productID int64) error

	AddSale(ctx context.Context, in SaleInput) (Sale, error)
	GetSale(ctx context.Context, saleID int64) (Sale, error)
	ListSales(ctx context.Context) ([]Sale, error)
	UpdateSale(ctx context.Context, saleID int64, in SaleInput) (Sale, error)
	DeleteSale(ctx context.Context, saleID int64) error
}
