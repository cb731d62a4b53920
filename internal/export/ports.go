// Package export defines the outbound port used to ship the expense list
// to an external target, plus the CSV file implementation.
package export

import (
	"context"
	"strconv"

	"expensetracker/internal/core"
)

// Exporter writes the full list of expenses to a target and returns a
// reference to what was written (a path, a sheet range).
type Exporter interface {
	Export(ctx context.Context, expenses []core.Expense) (ref string, err error)
}

// Header is the column order shared by every tabular export.
var Header = []string{"id", "date", "description", "amount", "category"}

// Row renders one expense in Header order.
func Row(e core.Expense) []string {
	return []string{
		strconv.Itoa(e.ID),
		e.Date.String(),
		e.Description,
		core.FormatCSVAmount(e.Amount),
		e.Category,
	}
}
