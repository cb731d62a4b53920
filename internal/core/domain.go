package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultCategory is assigned to expenses added without a category.
const DefaultCategory = "General"

// DateLayout is the wire format of an expense date.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Expense struct {
		ID          int     `json:"id"`
		Date        Date    `json:"date"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
	}

	// ExpensePatch carries the optional fields of an update. Empty strings
	// and a nil Amount leave the stored value unchanged. A description of
	// only whitespace is rejected.
	ExpensePatch struct {
		Description string
		Amount      *float64
		Category    string
	}

	// Budgets maps a month number ("1".."12") to its spending limit.
	// Budgets are not scoped by year.
	Budgets map[string]float64

	// Snapshot is the full persisted state of a ledger.
	Snapshot struct {
		Expenses []Expense `json:"expenses"`
		Budgets  Budgets   `json:"budgets"`
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrEmptyDescription = errors.New("empty description")
	ErrNotFound         = errors.New("expense not found")
	ErrNoExpenses       = errors.New("no expenses recorded")
	ErrNoCategoryMatch  = errors.New("no expenses for category")
	ErrNothingToExport  = errors.New("nothing to export")
	ErrCorruptData      = errors.New("corrupt data file")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON leaves d unchanged for a JSON null, as encoding/json does
// for its own types.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("date must be a string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// In reports whether the date falls in the given month and year.
func (d Date) In(month, year int) bool {
	return d.Month() == month && d.Year() == year
}

func ValidateAmount(amount float64) error {
	if !(amount > 0) {
		return ErrInvalidAmount
	}
	return nil
}

func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	return ValidateAmount(e.Amount)
}

// Validate checks a patch before any field of the target is touched.
func (p ExpensePatch) Validate() error {
	if p.Description != "" && strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDescription
	}
	if p.Amount != nil {
		return ValidateAmount(*p.Amount)
	}
	return nil
}

// Apply returns e with the non-empty fields of p applied.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Description != "" {
		e.Description = p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != "" {
		e.Category = p.Category
	}
	return e
}

func monthKey(month int) string {
	return strconv.Itoa(month)
}

// Get returns the budget for month, if one is set.
func (b Budgets) Get(month int) (float64, bool) {
	v, ok := b[monthKey(month)]
	return v, ok
}

// With returns a copy of b with month set to amount.
func (b Budgets) With(month int, amount float64) Budgets {
	out := make(Budgets, len(b)+1)
	for k, v := range b {
		out[k] = v
	}
	out[monthKey(month)] = amount
	return out
}

// Normalize replaces nil collections with empty ones so the snapshot
// always serializes as `{"expenses": [], "budgets": {}}`.
func (s Snapshot) Normalize() Snapshot {
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	if s.Budgets == nil {
		s.Budgets = Budgets{}
	}
	return s
}
