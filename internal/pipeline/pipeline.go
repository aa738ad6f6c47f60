// Package pipeline chains translation, safety review, and execution into the
// single ask path shared by the CLI and the HTTP API.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/nl2sql"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/safety"
)

// ErrTranslationFailed wraps any failure to obtain SQL from the translator,
// including empty model output.
var ErrTranslationFailed = errors.New("translation failed")

// ValidationError reports a query rejected by the safety review. Reason is
// the verdict text, suitable for showing to the user.
type ValidationError struct {
	SQL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query rejected: %s", e.Reason)
}

// ExecutionError reports a query that passed review but failed in the store.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Answer is the outcome of a successful ask: the SQL that ran and what it
// returned.
type Answer struct {
	Question string       `json:"question,omitempty"`
	SQL      string       `json:"sql"`
	Result   query.Result `json:"result"`
}

// Config carries the pipeline's collaborators. Translator may be nil when the
// deployment runs without model access; Ask then reports ErrTranslationFailed
// and Run remains available for literal SQL.
type Config struct {
	Translator   nl2sql.Translator
	Engine       query.Engine
	SystemPrompt string
	RowLimit     int
	Logger       *slog.Logger
}

// Pipeline executes natural-language questions and literal SQL against the
// store, with every statement passing the safety review first.
type Pipeline struct {
	translator   nl2sql.Translator
	engine       query.Engine
	systemPrompt string
	rowLimit     int
	logger       *slog.Logger
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Engine == nil {
		return nil, errors.New("pipeline: engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		translator:   cfg.Translator,
		engine:       cfg.Engine,
		systemPrompt: cfg.SystemPrompt,
		rowLimit:     cfg.RowLimit,
		logger:       logger,
	}, nil
}

// Ask translates the question to SQL, reviews it, and executes it. The
// returned error is ErrTranslationFailed, *ValidationError, or
// *ExecutionError depending on which stage refused.
func (p *Pipeline) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("%w: empty question", ErrTranslationFailed)
	}
	if p.translator == nil {
		return Answer{}, fmt.Errorf("%w: no translator configured", ErrTranslationFailed)
	}

	started := time.Now()
	result, err := p.translator.Translate(ctx, nl2sql.Request{
		SystemPrompt: p.systemPrompt,
		Question:     question,
	})
	observability.ObserveTranslation(err == nil, time.Since(started))
	if err != nil {
		p.logger.Warn("translation failed", slog.String("error", err.Error()))
		return Answer{}, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	sqlText := nl2sql.Normalize(result.SQL)
	if sqlText == "" {
		observability.ObserveValidation(false)
		return Answer{}, fmt.Errorf("%w: model returned no SQL", ErrTranslationFailed)
	}
	p.logger.Info("question translated",
		slog.String("model", result.Model),
		slog.String("sql", sqlText))

	answer, err := p.execute(ctx, sqlText)
	if err != nil {
		return Answer{}, err
	}
	answer.Question = question
	return answer, nil
}

// Run reviews and executes literal SQL, bypassing translation.
func (p *Pipeline) Run(ctx context.Context, sqlText string) (Answer, error) {
	return p.execute(ctx, strings.TrimSpace(sqlText))
}

func (p *Pipeline) execute(ctx context.Context, sqlText string) (Answer, error) {
	verdict := safety.Validate(sqlText)
	observability.ObserveValidation(verdict.Accepted)
	if !verdict.Accepted {
		p.logger.Warn("query rejected",
			slog.String("reason", verdict.Reason),
			slog.String("sql", sqlText))
		return Answer{}, &ValidationError{SQL: sqlText, Reason: verdict.Reason}
	}

	started := time.Now()
	result, err := p.engine.Execute(ctx, query.Request{SQL: sqlText, RowLimit: p.rowLimit})
	observability.ObserveQuery(err == nil, time.Since(started))
	if err != nil {
		p.logger.Error("query execution failed",
			slog.String("error", err.Error()),
			slog.String("sql", sqlText))
		return Answer{}, &ExecutionError{SQL: sqlText, Err: err}
	}
	return Answer{SQL: sqlText, Result: result}, nil
}
