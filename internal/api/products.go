package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/askdb/askdb/internal/store"
)

// storeConfigured guards every store-backed handler; a deployment without a
// repository reports the condition instead of dereferencing a nil interface.
func storeConfigured(deps Dependencies, w http.ResponseWriter, r *http.Request) bool {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "STORE_NOT_CONFIGURED", "store is not configured", false, nil)
		return false
	}
	return true
}

func handleListProducts(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	products, err := deps.Store.ListProducts(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", "failed to list products", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func handleCreateProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}
	product, err := deps.Store.AddProduct(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", "failed to create product", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func handleGetProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	product, err := deps.Store.GetProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func handleUpdateProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}
	product, err := deps.Store.UpdateProduct(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, r, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func handleDeleteProduct(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	if err := deps.Store.DeleteProduct(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func decodeProductInput(w http.ResponseWriter, r *http.Request) (store.ProductInput, bool) {
	var input store.ProductInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid product body", false, map[string]any{"details": err.Error()})
		return store.ProductInput{}, false
	}
	if strings.TrimSpace(input.ProductName) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "PRODUCT_NAME_REQUIRED", "product_name is required", false, nil)
		return store.ProductInput{}, false
	}
	if input.Price < 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "PRICE_INVALID", "price must not be negative", false, nil)
		return store.ProductInput{}, false
	}
	return input, true
}

func idFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "ID_INVALID", "id must be a positive integer", false, nil)
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error, kind string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(r.Context(), w, http.StatusNotFound, "NOT_FOUND", kind+" was not found", false, nil)
		return
	}
	writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", "store operation failed", true, map[string]any{"details": err.Error()})
}
