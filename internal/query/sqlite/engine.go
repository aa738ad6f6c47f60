// Package sqlite executes validated read queries against the SQLite store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/askdb/askdb/internal/query"
)

type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

// Execute runs the text as a single read query and captures the column
// names in declared order plus every matching row. Connections come from
// the pool per call and are released on every exit path. A store-reported
// error surfaces with the driver's diagnostic text.
func (e *Engine) Execute(ctx context.Context, request query.Request) (query.Result, error) {
	if e.db == nil {
		return query.Result{}, fmt.Errorf("database handle is required")
	}
	sqlText := trimStatementTail(request.SQL)
	if sqlText == "" {
		return query.Result{}, fmt.Errorf("sql is required")
	}
	if request.RowLimit > 0 {
		// The newline keeps a trailing line comment inside the statement
		// from swallowing the closing paren.
		sqlText = fmt.Sprintf("SELECT * FROM (%s\n) AS q LIMIT %d", sqlText, request.RowLimit)
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return query.Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return query.Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}

// trimStatementTail removes trailing terminators and any comment that
// follows the final terminator, so the remaining text can be embedded in a
// subquery. Terminators inside string literals are left alone.
func trimStatementTail(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for {
		if strings.HasSuffix(trimmed, ";") {
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
			continue
		}
		last := lastBareTerminator(trimmed)
		if last >= 0 && strings.HasPrefix(strings.TrimSpace(trimmed[last+1:]), "--") {
			trimmed = strings.TrimSpace(trimmed[:last])
			continue
		}
		return trimmed
	}
}

// lastBareTerminator returns the byte index of the last semicolon outside
// single-quoted literals, or -1. '' counts as an escaped quote.
func lastBareTerminator(sqlText string) int {
	last := -1
	inLiteral := false
	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		if inLiteral {
			if c == '\'' {
				if i+1 < len(sqlText) && sqlText[i+1] == '\'' {
					i++
				} else {
					inLiteral = false
				}
			}
			continue
		}
		switch c {
		case '\'':
			inLiteral = true
		case ';':
			last = i
		}
	}
	return last
}
