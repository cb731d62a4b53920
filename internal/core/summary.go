package core

import "time"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// MonthSummary is a compact summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      float64
	Budget     float64
	HasBudget  bool
	ByCategory []CategoryAmount
}

// Remaining is budget minus total; negative when over budget.
func (s MonthSummary) Remaining() float64 {
	return s.Budget - s.Total
}

// OverBudget reports whether spending exceeds a configured budget.
func (s MonthSummary) OverBudget() bool {
	return s.HasBudget && s.Total > s.Budget
}

// MonthName returns the English month name, e.g. "October".
func MonthName(month int) string {
	return time.Month(month).String()
}

// Summary is the result of a summary request: either the all-time total
// (Month nil) or a month summary.
type Summary struct {
	Total float64
	Month *MonthSummary
}

// BudgetAlert is raised when an add pushes a month past its budget.
type BudgetAlert struct {
	Month  int
	Total  float64
	Budget float64
}
