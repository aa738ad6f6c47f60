// Package schema holds the static description of the sales database that
// grounds query translation. The descriptor is built once at startup and
// never mutated, so it is safe to share across requests.
package schema

import (
	"fmt"
	"strings"
)

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

type ForeignKey struct {
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}

type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

type Descriptor struct {
	Tables []Table `json:"tables"`
}

// Default returns the fixed sales schema the application ships with.
func Default() Descriptor {
	return Descriptor{
		Tables: []Table{
			{
				Name: "products",
				Columns: []Column{
					{Name: "product_id", Type: "INTEGER", PrimaryKey: true},
					{Name: "product_name", Type: "TEXT"},
					{Name: "category", Type: "TEXT", Nullable: true},
					{Name: "price", Type: "REAL"},
				},
			},
			{
				Name: "sales",
				Columns: []Column{
					{Name: "sale_id", Type: "INTEGER", PrimaryKey: true},
					{Name: "product_id", Type: "INTEGER"},
					{Name: "customer_id", Type: "INTEGER"},
					{Name: "sale_date", Type: "TEXT"},
					{Name: "quantity", Type: "INTEGER"},
					{Name: "total_amount", Type: "REAL"},
				},
				ForeignKeys: []ForeignKey{
					{Column: "product_id", RefTable: "products", RefColumn: "product_id"},
				},
			},
		},
	}
}

// Validate checks referential integrity of the descriptor itself: every
// foreign key must point at an existing table and column.
func (d Descriptor) Validate() error {
	columnsByTable := make(map[string]map[string]struct{}, len(d.Tables))
	for _, table := range d.Tables {
		if table.Name == "" {
			return fmt.Errorf("table with empty name")
		}
		if _, ok := columnsByTable[table.Name]; ok {
			return fmt.Errorf("duplicate table %q", table.Name)
		}
		columns := make(map[string]struct{}, len(table.Columns))
		for _, column := range table.Columns {
			if column.Name == "" {
				return fmt.Errorf("table %q has a column with empty name", table.Name)
			}
			columns[column.Name] = struct{}{}
		}
		columnsByTable[table.Name] = columns
	}

	for _, table := range d.Tables {
		for _, fk := range table.ForeignKeys {
			if _, ok := columnsByTable[table.Name][fk.Column]; !ok {
				return fmt.Errorf("table %q: foreign key column %q does not exist", table.Name, fk.Column)
			}
			refColumns, ok := columnsByTable[fk.RefTable]
			if !ok {
				return fmt.Errorf("table %q: foreign key target table %q does not exist", table.Name, fk.RefTable)
			}
			if _, ok := refColumns[fk.RefColumn]; !ok {
				return fmt.Errorf("table %q: foreign key target column %q.%q does not exist", table.Name, fk.RefTable, fk.RefColumn)
			}
		}
	}
	return nil
}

// Describe renders the descriptor as SQL-flavored text for the translation
// prompt. The output is deterministic: tables and columns appear in
// declaration order.
func (d Descriptor) Describe() string {
	var b strings.Builder
	for i, table := range d.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "TABLE %s (\n", table.Name)
		for j, column := range table.Columns {
			b.WriteString("    " + column.Name + " " + column.Type)
			if column.PrimaryKey {
				b.WriteString(" PRIMARY KEY")
			} else if !column.Nullable {
				b.WriteString(" NOT NULL")
			}
			if j < len(table.Columns)-1 || len(table.ForeignKeys) > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		for j, fk := range table.ForeignKeys {
			fmt.Fprintf(&b, "    FOREIGN KEY (%s) REFERENCES %s(%s)", fk.Column, fk.RefTable, fk.RefColumn)
			if j < len(table.ForeignKeys)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(");\n")
	}
	return b.String()
}
