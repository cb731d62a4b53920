package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "debug"})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug logging to be enabled")
	}
	logger = SetupLogger(nil)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("default logger must only emit warnings and errors")
	}
}

func TestOpenLedgerBackends(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		cfg  *config.Config
	}{
		{"json", &config.Config{DataBackend: "json", DataFile: filepath.Join(dir, "expenses.json")}},
		{"sqlite", &config.Config{DataBackend: "sqlite", SQLiteDBPath: filepath.Join(dir, "expenses.db")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			logger := SetupLogger(nil)

			store, cleanup, err := OpenLedger(ctx, tc.cfg, logger)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if _, err := store.Add(ctx, "Lunch", 20, ""); err != nil {
				t.Fatalf("add: %v", err)
			}
			cleanup()

			reopened, cleanup, err := OpenLedger(ctx, tc.cfg, logger)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer cleanup()
			if reopened.Len() != 1 || reopened.Total() != 20 {
				t.Fatalf("expected persisted expense, got len=%d total=%v", reopened.Len(), reopened.Total())
			}
		})
	}

	if _, _, err := OpenLedger(context.Background(), &config.Config{DataBackend: "memory"}, SetupLogger(nil)); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewSheetsExporterRequiresConfig(t *testing.T) {
	if _, err := NewSheetsExporter(context.Background(), &config.Config{GoogleSheetName: "Expenses"}); err == nil {
		t.Fatal("expected error when sheets is not configured")
	}
}
