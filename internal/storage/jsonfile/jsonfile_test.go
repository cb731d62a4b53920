package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"expensetracker/internal/core"
)

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "expenses.json"))
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if len(snap.Expenses) != 0 || len(snap.Budgets) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path).Load(context.Background())
	if !errors.Is(err, core.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	cases := []core.Snapshot{
		{},
		{
			Expenses: []core.Expense{
				{ID: 2, Date: core.NewDate(2025, 10, 1), Description: "Dinner", Amount: 10, Category: "Food"},
				{ID: 1, Date: core.NewDate(2024, 1, 31), Description: "Lunch", Amount: 20.25, Category: "General"},
			},
			Budgets: core.Budgets{"10": 5, "1": 300},
		},
	}
	for i, in := range cases {
		s := New(filepath.Join(t.TempDir(), "data", "expenses.json"))
		if err := s.Save(ctx, in); err != nil {
			t.Fatalf("case %d save: %v", i, err)
		}
		out, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("case %d load: %v", i, err)
		}
		if !reflect.DeepEqual(in.Normalize(), out) {
			t.Fatalf("case %d round trip mismatch:\n in=%+v\nout=%+v", i, in.Normalize(), out)
		}
	}
}

func TestSaveWritesDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.json")
	snap := core.Snapshot{
		Expenses: []core.Expense{{ID: 1, Date: core.NewDate(2025, 10, 19), Description: "Lunch", Amount: 20, Category: "General"}},
		Budgets:  core.Budgets{"10": 5},
	}
	if err := New(path).Save(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("saved file is not json: %v", err)
	}
	expenses, ok := doc["expenses"].([]any)
	if !ok || len(expenses) != 1 {
		t.Fatalf("unexpected expenses: %v", doc["expenses"])
	}
	first := expenses[0].(map[string]any)
	for _, k := range []string{"id", "date", "description", "amount", "category"} {
		if _, ok := first[k]; !ok {
			t.Fatalf("missing key %q in %v", k, first)
		}
	}
	if first["date"] != "2025-10-19" {
		t.Fatalf("unexpected date %v", first["date"])
	}
	budgets, ok := doc["budgets"].(map[string]any)
	if !ok || budgets["10"] != 5.0 {
		t.Fatalf("unexpected budgets: %v", doc["budgets"])
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "expenses.json"))
	for i := 0; i < 3; i++ {
		if err := s.Save(context.Background(), core.Snapshot{Budgets: core.Budgets{"1": float64(i + 1)}}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "expenses.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the data file, got %v", names)
	}
}

func TestSaveFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.json")
	s := New(path)
	if err := s.Save(context.Background(), core.Snapshot{Budgets: core.Budgets{"1": 1}}); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	// A regular file cannot be the parent directory of the target.
	bad := New(filepath.Join(path, "nested.json"))
	if err := bad.Save(context.Background(), core.Snapshot{}); err == nil {
		t.Fatalf("expected save under a file path to fail")
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Fatalf("previous file changed after failed save")
	}
}
