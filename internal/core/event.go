package core

import "time"

type EventType string

const (
	EventExpenseAdded   EventType = "expense.added"
	EventExpenseUpdated EventType = "expense.updated"
	EventExpenseDeleted EventType = "expense.deleted"
	EventBudgetSet      EventType = "budget.set"
	EventBudgetExceeded EventType = "budget.exceeded"
)

// Event describes a committed ledger mutation.
type Event struct {
	Type      EventType
	ExpenseID int
	Month     int
	Amount    float64
	Total     float64
	Timestamp time.Time
}
