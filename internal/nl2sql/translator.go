// Package nl2sql turns natural-language questions into SQL text via an
// OpenAI-compatible generation service.
package nl2sql

import "context"

type Request struct {
	SystemPrompt string `json:"system_prompt"`
	Question     string `json:"question"`
}

// Result carries the raw, unprocessed service response. Callers normalize
// and validate it before anything reaches the store.
type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
