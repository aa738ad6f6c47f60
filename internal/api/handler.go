// Package api exposes the ask pipeline and the sales store over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/pipeline"
	"github.com/askdb/askdb/internal/schema"
	"github.com/askdb/askdb/internal/store"
)

type ReadinessCheck func(ctx context.Context) error

// AskRunner is the pipeline surface the handlers need. Both methods return
// the answer for a single statement.
type AskRunner interface {
	Ask(ctx context.Context, question string) (pipeline.Answer, error)
	Run(ctx context.Context, sqlText string) (pipeline.Answer, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	DependencyTimeout time.Duration
	Store             store.Repository
	Pipeline          AskRunner
	Schema            schema.Descriptor
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/schema", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"tables":      deps.Schema.Tables,
			"description": deps.Schema.Describe(),
		})
	})

	mux.HandleFunc("POST /v1/ask", func(w http.ResponseWriter, r *http.Request) {
		handleAsk(deps, w, r)
	})
	mux.HandleFunc("POST /v1/query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})

	mux.HandleFunc("GET /v1/products", func(w http.ResponseWriter, r *http.Request) {
		handleListProducts(deps, w, r)
	})
	mux.HandleFunc("POST /v1/products", func(w http.ResponseWriter, r *http.Request) {
		handleCreateProduct(deps, w, r)
	})
	mux.HandleFunc("GET /v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleGetProduct(deps, w, r)
	})
	mux.HandleFunc("PUT /v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleUpdateProduct(deps, w, r)
	})
	mux.HandleFunc("DELETE /v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleDeleteProduct(deps, w, r)
	})

	mux.HandleFunc("GET /v1/sales", func(w http.ResponseWriter, r *http.Request) {
		handleListSales(deps, w, r)
	})
	mux.HandleFunc("POST /v1/sales", func(w http.ResponseWriter, r *http.Request) {
		handleCreateSale(deps, w, r)
	})
	mux.HandleFunc("GET /v1/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleGetSale(deps, w, r)
	})
	mux.HandleFunc("PUT /v1/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleUpdateSale(deps, w, r)
	})
	mux.HandleFunc("DELETE /v1/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleDeleteSale(deps, w, r)
	})

	return chain(mux, observability.Instrument(deps.Logger))
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
