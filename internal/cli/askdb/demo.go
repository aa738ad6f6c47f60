package askdb

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/askdb/askdb/internal/pipeline"
	"github.com/askdb/askdb/internal/render"
)

type demoStep struct {
	question string
	sql      string
}

// demoSteps replays representative questions with pre-written SQL, so the
// review and execution stages can be shown without a model credential. The
// last step is rejected on purpose.
var demoSteps = []demoStep{
	{
		question: "What products do we sell?",
		sql:      "SELECT product_id, product_name, category, price FROM products",
	},
	{
		question: "What is our total revenue?",
		sql:      "SELECT SUM(total_amount) AS total_revenue FROM sales",
	},
	{
		question: "Top 3 products by revenue?",
		sql: "SELECT p.product_name, SUM(s.total_amount) AS revenue " +
			"FROM sales s JOIN products p ON p.product_id = s.product_id " +
			"GROUP BY p.product_name ORDER BY revenue DESC LIMIT 3",
	},
	{
		question: "How many sales did we make in July 2024?",
		sql:      "SELECT COUNT(*) AS sales_count FROM sales WHERE sale_date BETWEEN '2024-07-01' AND '2024-07-31'",
	},
	{
		question: "Delete all sales records",
		sql:      "DELETE FROM sales",
	},
}

func runDemo(ctx context.Context, p Pipeline, stdout, stderr io.Writer) int {
	failures := 0
	for i, step := range demoSteps {
		_, _ = fmt.Fprintf(stdout, "[%d/%d] %s\n", i+1, len(demoSteps), step.question)
		_, _ = fmt.Fprintf(stdout, "SQL: %s\n", step.sql)

		answer, err := p.Run(ctx, step.sql)
		if err != nil {
			var validationErr *pipeline.ValidationError
			if errors.As(err, &validationErr) {
				_, _ = fmt.Fprintf(stdout, "rejected: %s\n\n", validationErr.Reason)
				continue
			}
			_, _ = fmt.Fprintln(stderr, describeError(err))
			failures++
			continue
		}
		render.Table(stdout, answer.Result)
		_, _ = fmt.Fprintln(stdout)
	}
	if failures > 0 {
		return 1
	}
	return 0
}
