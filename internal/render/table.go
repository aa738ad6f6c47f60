// Package render formats query results for terminal output.
package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/askdb/askdb/internal/query"
)

// Table writes the result as an aligned grid followed by a row count. Empty
// results print a short notice instead of an empty grid.
func Table(w io.Writer, result query.Result) {
	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(result.Columns)
	table.SetAutoFormatHeaders(false)
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = formatValue(value)
		}
		table.Append(cells)
	}
	table.Render()

	if len(result.Rows) == 1 {
		fmt.Fprintln(w, "1 row")
		return
	}
	fmt.Fprintf(w, "%d rows\n", len(result.Rows))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
