package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/askdb/askdb/internal/pipeline"
)

type askRequest struct {
	Question string `json:"question"`
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type answerResponse struct {
	Question   string   `json:"question,omitempty"`
	SQL        string   `json:"sql"`
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	RowCount   int      `json:"row_count"`
	DurationMs int64    `json:"duration_ms"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "ask pipeline is not configured", false, nil)
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	answer, err := deps.Pipeline.Ask(r.Context(), request.Question)
	if err != nil {
		writeAnswerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnswerResponse(answer))
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query pipeline is not configured", false, nil)
		return
	}

	var request queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	answer, err := deps.Pipeline.Run(r.Context(), request.SQL)
	if err != nil {
		writeAnswerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnswerResponse(answer))
}

func writeAnswerError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *pipeline.ValidationError
	if errors.As(err, &validationErr) {
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_REJECTED", validationErr.Reason, false, map[string]any{"sql": validationErr.SQL})
		return
	}
	var executionErr *pipeline.ExecutionError
	if errors.As(err, &executionErr) {
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", "query execution failed", false, map[string]any{
			"sql":     executionErr.SQL,
			"details": executionErr.Err.Error(),
		})
		return
	}
	if errors.Is(err, pipeline.ErrTranslationFailed) {
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATION_FAILED", err.Error(), true, nil)
		return
	}
	writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), true, nil)
}

func toAnswerResponse(answer pipeline.Answer) answerResponse {
	return answerResponse{
		Question:   answer.Question,
		SQL:        answer.SQL,
		Columns:    answer.Result.Columns,
		Rows:       answer.Result.Rows,
		RowCount:   len(answer.Result.Rows),
		DurationMs: answer.Result.Duration.Milliseconds(),
	}
}
