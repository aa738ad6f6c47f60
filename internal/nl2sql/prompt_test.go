package nl2sql

import (
	"strings"
	"testing"

	"github.com/askdb/askdb/internal/schema"
)

func TestBuildSystemPromptEmbedsSchemaAndRules(t *testing.T) {
	prompt := BuildSystemPrompt(schema.Default())

	for _, want := range []string{
		"TABLE products (",
		"TABLE sales (",
		"only SELECT queries",
		"SQLite",
		"date()",
		"last month",
		"this month",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptIsStable(t *testing.T) {
	desc := schema.Default()
	if BuildSystemPrompt(desc) != BuildSystemPrompt(desc) {
		t.Fatal("BuildSystemPrompt() should be deterministic")
	}
}
