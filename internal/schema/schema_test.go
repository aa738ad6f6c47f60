package schema

import (
	"strings"
	"testing"
)

func TestDefaultDescriptorIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsMissingForeignKeyTargets(t *testing.T) {
	cases := []struct {
		name string
		desc Descriptor
	}{
		{
			name: "missing target table",
			desc: Descriptor{Tables: []Table{
				{
					Name:        "sales",
					Columns:     []Column{{Name: "product_id", Type: "INTEGER"}},
					ForeignKeys: []ForeignKey{{Column: "product_id", RefTable: "products", RefColumn: "product_id"}},
				},
			}},
		},
		{
			name: "missing target column",
			desc: Descriptor{Tables: []Table{
				{Name: "products", Columns: []Column{{Name: "id", Type: "INTEGER"}}},
				{
					Name:        "sales",
					Columns:     []Column{{Name: "product_id", Type: "INTEGER"}},
					ForeignKeys: []ForeignKey{{Column: "product_id", RefTable: "products", RefColumn: "product_id"}},
				},
			}},
		},
		{
			name: "missing local column",
			desc: Descriptor{Tables: []Table{
				{Name: "products", Columns: []Column{{Name: "product_id", Type: "INTEGER"}}},
				{
					Name:        "sales",
					Columns:     []Column{{Name: "sale_id", Type: "INTEGER"}},
					ForeignKeys: []ForeignKey{{Column: "product_id", RefTable: "products", RefColumn: "product_id"}},
				},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.desc.Validate(); err == nil {
				t.Fatal("Validate() should fail")
			}
		})
	}
}

func TestDescribeIsDeterministic(t *testing.T) {
	desc := Default()
	first := desc.Describe()
	second := desc.Describe()
	if first != second {
		t.Fatal("Describe() should be deterministic")
	}
}

func TestDescribeMentionsTablesAndKeys(t *testing.T) {
	text := Default().Describe()
	for _, want := range []string{
		"TABLE products (",
		"TABLE sales (",
		"product_name TEXT NOT NULL",
		"category TEXT,",
		"FOREIGN KEY (product_id) REFERENCES products(product_id)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("Describe() missing %q in:\n%s", want, text)
		}
	}
}
