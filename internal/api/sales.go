package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/store"
)

func handleListSales(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	sales, err := deps.Store.ListSales(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", "failed to list sales", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sales": sales})
}

func handleCreateSale(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	input, ok := decodeSaleInput(w, r)
	if !ok {
		return
	}
	sale, err := deps.Store.AddSale(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STORE_ERROR", "failed to create sale", true, map[string]any{"details": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func handleGetSale(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	sale, err := deps.Store.GetSale(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "sale")
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func handleUpdateSale(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	input, ok := decodeSaleInput(w, r)
	if !ok {
		return
	}
	sale, err := deps.Store.UpdateSale(r.Context(), id, input)
	if err != nil {
		writeStoreError(w, r, err, "sale")
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func handleDeleteSale(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if !storeConfigured(deps, w, r) {
		return
	}
	id, ok := idFromPath(w, r)
	if !ok {
		return
	}
	if err := deps.Store.DeleteSale(r.Context(), id); err != nil {
		writeStoreError(w, r, err, "sale")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func decodeSaleInput(w http.ResponseWriter, r *http.Request) (store.SaleInput, bool) {
	var input store.SaleInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid sale body", false, map[string]any{"details": err.Error()})
		return store.SaleInput{}, false
	}
	if input.ProductID <= 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "PRODUCT_ID_INVALID", "product_id must be a positive integer", false, nil)
		return store.SaleInput{}, false
	}
	if input.Quantity <= 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "QUANTITY_INVALID", "quantity must be a positive integer", false, nil)
		return store.SaleInput{}, false
	}
	if strings.TrimSpace(input.SaleDate) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SALE_DATE_REQUIRED", "sale_date is required", false, nil)
		return store.SaleInput{}, false
	}
	if _, err := time.Parse("2006-01-02", input.SaleDate); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "SALE_DATE_INVALID", "sale_date must be YYYY-MM-DD", false, nil)
		return store.SaleInput{}, false
	}
	return input, true
}
