package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 3, 7)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-07"` {
		t.Fatalf("unexpected json: %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	bads := []string{`"2025-13-01"`, `"yesterday"`, `20250307`}
	for _, in := range bads {
		if err := json.Unmarshal([]byte(in), &back); err == nil {
			t.Fatalf("%s expected error", in)
		}
	}
}

func TestDateJSONNullKeepsRecord(t *testing.T) {
	d := NewDate(2025, 3, 7)
	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("null: %v", err)
	}
	if d.String() != "2025-03-07" {
		t.Fatalf("null must leave the date unchanged, got %s", d)
	}

	in := `{"expenses":[` +
		`{"id":1,"date":null,"description":"Lunch","amount":20,"category":"General"},` +
		`{"id":2,"date":"2025-10-19","description":"Dinner","amount":10,"category":"Food"}` +
		`],"budgets":{}}`
	var snap Snapshot
	if err := json.Unmarshal([]byte(in), &snap); err != nil {
		t.Fatalf("one null date must not fail the whole snapshot: %v", err)
	}
	if len(snap.Expenses) != 2 || !snap.Expenses[0].Date.IsZero() || snap.Expenses[1].Date.String() != "2025-10-19" {
		t.Fatalf("unexpected snapshot: %+v", snap.Expenses)
	}
}

func TestDateOfAndIn(t *testing.T) {
	d := DateOf(time.Date(2024, 10, 19, 23, 59, 0, 0, time.Local))
	if d.String() != "2024-10-19" {
		t.Fatalf("unexpected date %s", d)
	}
	if !d.In(10, 2024) || d.In(10, 2023) || d.In(9, 2024) {
		t.Fatalf("In mismatch for %s", d)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: 1, Date: NewDate(2025, 1, 1), Description: "ok", Amount: 1, Category: DefaultCategory}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		e   Expense
		err error
	}{
		{Expense{Description: "", Amount: 1}, ErrEmptyDescription},
		{Expense{Description: "   ", Amount: 1}, ErrEmptyDescription},
		{Expense{Description: "a", Amount: 0}, ErrInvalidAmount},
		{Expense{Description: "a", Amount: -3}, ErrInvalidAmount},
	}
	for i, tc := range cases {
		if err := tc.e.Validate(); !errors.Is(err, tc.err) {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestValidateMonth(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if err := ValidateMonth(m); err != nil {
			t.Fatalf("month %d expected ok, got %v", m, err)
		}
	}
	for _, m := range []int{-1, 0, 13} {
		if err := ValidateMonth(m); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestExpensePatch(t *testing.T) {
	base := Expense{ID: 4, Description: "Lunch", Amount: 20, Category: "Food"}

	amount := 25.5
	got := ExpensePatch{Description: "Business Lunch", Amount: &amount}.Apply(base)
	if got.Description != "Business Lunch" || got.Amount != 25.5 || got.Category != "Food" || got.ID != 4 {
		t.Fatalf("unexpected patched expense: %+v", got)
	}

	if got := (ExpensePatch{}).Apply(base); got != base {
		t.Fatalf("empty patch changed expense: %+v", got)
	}

	zero := 0.0
	if err := (ExpensePatch{Amount: &zero}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	for _, desc := range []string{" ", "\t\n"} {
		if err := (ExpensePatch{Description: desc}).Validate(); !errors.Is(err, ErrEmptyDescription) {
			t.Fatalf("description %q: expected ErrEmptyDescription, got %v", desc, err)
		}
	}
	if err := (ExpensePatch{Category: "Food"}).Validate(); err != nil {
		t.Fatalf("unset description must be valid, got %v", err)
	}
}

func TestBudgets(t *testing.T) {
	var b Budgets
	if _, ok := b.Get(3); ok {
		t.Fatalf("nil budgets should have no entries")
	}
	b2 := b.With(3, 100)
	if v, ok := b2.Get(3); !ok || v != 100 {
		t.Fatalf("expected budget 100, got %v %v", v, ok)
	}
	if _, ok := b2["3"]; !ok {
		t.Fatalf("budget must be keyed by month text: %v", b2)
	}
	b3 := b2.With(3, 50)
	if v, _ := b2.Get(3); v != 100 {
		t.Fatalf("With must not mutate the receiver")
	}
	if v, _ := b3.Get(3); v != 50 {
		t.Fatalf("expected overwrite to 50, got %v", v)
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	b, err := json.Marshal(Snapshot{}.Normalize())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"expenses":[],"budgets":{}}` {
		t.Fatalf("unexpected json: %s", b)
	}

	in := `{"expenses":[{"id":2,"date":"2025-01-05","description":"Dinner","amount":10,"category":"Food"}],"budgets":{"1":5.5}}`
	var s Snapshot
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s.Expenses) != 1 || s.Expenses[0].ID != 2 || s.Expenses[0].Date.String() != "2025-01-05" {
		t.Fatalf("unexpected expenses: %+v", s.Expenses)
	}
	if v, ok := s.Budgets.Get(1); !ok || v != 5.5 {
		t.Fatalf("unexpected budgets: %v", s.Budgets)
	}
}
