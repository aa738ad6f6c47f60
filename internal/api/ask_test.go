package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/askdb/askdb/internal/pipeline"
	"github.com/askdb/askdb/internal/query"
)

func TestAskEndpoint(t *testing.T) {
	fake := &fakePipeline{answer: pipeline.Answer{
		Question: "total revenue",
		SQL:      "SELECT SUM(total_amount) FROM sales",
		Result: query.Result{
			Columns:  []string{"SUM(total_amount)"},
			Rows:     [][]any{{7726.0}},
			Duration: 12 * time.Millisecond,
		},
	}}
	handler := newTestHandler(Dependencies{Pipeline: fake})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"total revenue"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body answerResponse
	decodeBody(t, rec, &body)
	if body.SQL != "SELECT SUM(total_amount) FROM sales" {
		t.Fatalf("sql = %q", body.SQL)
	}
	if body.RowCount != 1 {
		t.Fatalf("row_count = %d", body.RowCount)
	}
	if fake.lastQuestion != "total revenue" {
		t.Fatalf("pipeline received %q", fake.lastQuestion)
	}
}

func TestAskEndpointRequiresQuestion(t *testing.T) {
	handler := newTestHandler(Dependencies{Pipeline: &fakePipeline{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"  "}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "QUESTION_REQUIRED" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
}

func TestAskEndpointRejectedQuery(t *testing.T) {
	fake := &fakePipeline{askErr: &pipeline.ValidationError{
		SQL:    "DROP TABLE products",
		Reason: `forbidden keyword "DROP"`,
	}}
	handler := newTestHandler(Dependencies{Pipeline: fake})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"remove everything"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "QUERY_REJECTED" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
	if body["message"] != `forbidden keyword "DROP"` {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestAskEndpointTranslationFailure(t *testing.T) {
	fake := &fakePipeline{askErr: pipeline.ErrTranslationFailed}
	handler := newTestHandler(Dependencies{Pipeline: fake})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"total revenue"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["error_code"] != "TRANSLATION_FAILED" {
		t.Fatalf("error_code = %v", body["error_code"])
	}
	if body["retryable"] != true {
		t.Fatalf("retryable = %v", body["retryable"])
	}
}

func TestQueryEndpointRunsLiteralSQL(t *testing.T) {
	fake := &fakePipeline{answer: pipeline.Answer{
		SQL: "SELECT COUNT(*) FROM products",
		Result: query.Result{
			Columns: []string{"COUNT(*)"},
			Rows:    [][]any{{int64(8)}},
		},
	}}
	handler := newTestHandler(Dependencies{Pipeline: fake})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"sql":"SELECT COUNT(*) FROM products"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fake.lastSQL != "SELECT COUNT(*) FROM products" {
		t.Fatalf("pipeline received %q", fake.lastSQL)
	}
}

func TestQueryEndpointWithoutPipeline(t *testing.T) {
	handler := newTestHandler(Dependencies{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"sql":"SELECT 1"}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
}
