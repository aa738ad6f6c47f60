package migrations

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadMigrationsSortsAndPairsUpDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_two.up.sql":   {Data: []byte("SELECT 2;")},
		"sql/0002_two.down.sql": {Data: []byte("SELECT -2;")},
		"sql/0001_one.up.sql":   {Data: []byte("SELECT 1;")},
		"sql/0001_one.down.sql": {Data: []byte("SELECT -1;")},
	}

	items, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if items[0].Version != 1 || items[1].Version != 2 {
		t.Fatalf("unexpected migration order: %+v", items)
	}
}

func TestLoadMigrationsErrorsWhenDownMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_one.up.sql": {Data: []byte("SELECT 1;")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for missing down migration")
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	items, err := loadMigrations(embeddedFS)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	init := items[0]
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS products", "CREATE TABLE IF NOT EXISTS sales", "FOREIGN KEY (product_id) REFERENCES products(product_id)"} {
		if !strings.Contains(init.UpSQL, want) {
			t.Fatalf("initial migration missing %q", want)
		}
	}
}
