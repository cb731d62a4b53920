package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"-10", -10, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(20); got != "$20.00" {
		t.Fatalf("got %q", got)
	}
	if got := FormatAmount(3.456); got != "$3.46" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCSVAmount(20); got != "20" {
		t.Fatalf("got %q", got)
	}
	if got := FormatCSVAmount(12.5); got != "12.5" {
		t.Fatalf("got %q", got)
	}
}

func TestMonthSummary(t *testing.T) {
	s := MonthSummary{Month: 10, Total: 20, Budget: 5, HasBudget: true}
	if !s.OverBudget() || s.Remaining() != -15 {
		t.Fatalf("unexpected summary state: %+v", s)
	}
	s = MonthSummary{Month: 10, Total: 20}
	if s.OverBudget() {
		t.Fatalf("no budget means never over budget")
	}
	if MonthName(10) != "October" {
		t.Fatalf("unexpected month name %q", MonthName(10))
	}
}
