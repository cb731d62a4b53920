package backend

import (
	"context"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/storage/jsonfile"
	"expensetracker/internal/storage/sqlite"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "json", DataFile: "x.json", SQLiteDBPath: "x.db", DatabaseURL: "postgres://db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != JSONBackend || cfg.DataFile != "x.json" || cfg.SQLiteDBPath != "x.db" || cfg.DatabaseURL != "postgres://db" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"json ok", Config{Type: JSONBackend, DataFile: "a.json"}, true},
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, true},
		{"json missing file", Config{Type: JSONBackend}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, false},
		{"postgres ok", Config{Type: PostgresBackend, DatabaseURL: "postgres://localhost/ledger"}, true},
		{"postgres missing url", Config{Type: PostgresBackend}, false},
		{"unknown type", Config{Type: "memory"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	res, err := f.CreateBackend(ctx, Config{Type: JSONBackend, DataFile: filepath.Join(dir, "expenses.json")})
	if err != nil {
		t.Fatalf("json backend: %v", err)
	}
	if _, ok := res.Persister.(*jsonfile.Store); !ok || res.Cleanup != nil {
		t.Fatalf("unexpected json backend result: %#v", res)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "expenses.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	if _, ok := res.Persister.(*sqlite.Repository); !ok || res.Cleanup == nil {
		t.Fatalf("unexpected sqlite backend result: %#v", res)
	}
	if err := res.Persister.Save(ctx, core.Snapshot{Budgets: core.Budgets{"1": 10}}); err != nil {
		t.Fatalf("save through sqlite backend: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := f.CreateBackend(ctx, Config{Type: PostgresBackend, DatabaseURL: "postgres://%zz"}); err == nil {
		t.Fatal("expected error for malformed database url")
	}

	if _, err := f.CreateBackend(ctx, Config{Type: "memory"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestGetBackendTypes(t *testing.T) {
	types := GetBackendTypes()
	if len(types) != 3 {
		t.Fatalf("expected three backends, got %v", types)
	}
	for _, bt := range types {
		if !bt.IsValid() {
			t.Fatalf("%s must be valid", bt)
		}
	}
	if BackendType("memory").IsValid() {
		t.Fatal("memory is not a backend")
	}
}
