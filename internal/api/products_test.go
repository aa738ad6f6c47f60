package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/store"
)

func TestListProductsEndpoint(t *testing.T) {
	repo := &fakeRepository{products: []store.Product{
		{ProductID: 1, ProductName: "Laptop", Category: "Electronics", Price: 1200},
		{ProductID: 2, ProductName: "Mouse", Category: "Electronics", Price: 25},
	}}
	handler := newTestHandler(Dependencies{Store: repo})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Products []store.Product `json:"products"`
	}
	decodeBody(t, rec, &body)
	if len(body.Products) != 2 {
		t.Fatalf("len(products) = %d", len(body.Products))
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/products",
		strings.NewReader(`{"product_name":"Desk Lamp","category":"Home","price":45.5}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body store.Product
	decodeBody(t, rec, &body)
	if body.ProductID != 9 || body.ProductName != "Desk Lamp" {
		t.Fatalf("product = %+v", body)
	}
}

func TestCreateProductRequiresName(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/products",
		strings.NewReader(`{"product_name":"","price":10}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "PRODUCT_NAME_REQUIRED" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestGetProductNotFound(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{err: store.ErrNotFound}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "NOT_FOUND" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestGetProductRejectsBadID(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "ID_INVALID" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestCreateSaleValidatesDate(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sales",
		strings.NewReader(`{"product_id":1,"customer_id":101,"sale_date":"15/06/2024","quantity":2,"total_amount":50}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "SALE_DATE_INVALID" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestStoreBackedEndpointsWithoutStore(t *testing.T) {
	handler := newTestHandler(Dependencies{})

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/products"},
		{http.MethodGet, "/v1/products/1"},
		{http.MethodPut, "/v1/products/1"},
		{http.MethodDelete, "/v1/products/1"},
		{http.MethodGet, "/v1/sales/1"},
		{http.MethodPut, "/v1/sales/1"},
		{http.MethodDelete, "/v1/sales/1"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s %s status = %d, want %d", tc.method, tc.path, rec.Code, http.StatusNotImplemented)
			continue
		}
		var body map[string]any
		decodeBody(t, rec, &body)
		if body["error_code"] != "STORE_NOT_CONFIGURED" {
			t.Errorf("%s %s error_code = %v", tc.method, tc.path, body["error_code"])
		}
	}
}

func TestDeleteSaleNotFoundEndpoint(t *testing.T) {
	handler := newTestHandler(Dependencies{Store: &fakeRepository{err: store.ErrNotFound}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/sales/77", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
