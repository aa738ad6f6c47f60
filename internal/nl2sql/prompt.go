package nl2sql

import (
	"fmt"

	"github.com/askdb/askdb/internal/schema"
)

// BuildSystemPrompt composes the system instruction for the generation
// service from the schema description and a fixed rule block. The result
// does not depend on any particular question, so it is built once and
// reused for every request.
func BuildSystemPrompt(desc schema.Descriptor) string {
	return fmt.Sprintf(`You are a SQL expert. Convert the user's natural-language question into a single SQLite SQL query against the schema below.

%s
Rules:
1. Produce only SELECT queries. Never produce INSERT, UPDATE, DELETE or any other statement that modifies data.
2. Return only the SQL query text. No explanation, no prose.
3. Return the query as plain text, without markdown code fences.
4. Use SQLite's date() function for date comparisons.
5. Interpret "last month" as the previous 30 days and "this month" as the range from the start of the current calendar month until today, expressed as concrete date-range predicates.
6. Handle non-ASCII characters in string values correctly.`, desc.Describe())
}
