package query

import (
	"context"
	"time"
)

type Request struct {
	SQL string
	// RowLimit > 0 caps the number of returned rows by wrapping the query.
	RowLimit int
}

// Result of a read query. Rows is empty, never nil, when nothing matched.
type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

type Engine interface {
	Execute(ctx context.Context, request Request) (Result, error)
}
