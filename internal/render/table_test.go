package render

import (
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/query"
)

func TestTableEmptyResult(t *testing.T) {
	var buf strings.Builder
	Table(&buf, query.Result{Columns: []string{"product_name"}})

	if got := buf.String(); got != "no results\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestTableRendersRowsAndCount(t *testing.T) {
	var buf strings.Builder
	Table(&buf, query.Result{
		Columns: []string{"product_name", "price"},
		Rows: [][]any{
			{"Laptop", float64(1200)},
			{"Mouse", 25.5},
		},
	})

	out := buf.String()
	for _, want := range []string{"product_name", "Laptop", "1200", "25.5", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableSingularRowCount(t *testing.T) {
	var buf strings.Builder
	Table(&buf, query.Result{
		Columns: []string{"n"},
		Rows:    [][]any{{int64(8)}},
	})

	if !strings.Contains(buf.String(), "1 row\n") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{nil, "NULL"},
		{"Electronics", "Electronics"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.value); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}
