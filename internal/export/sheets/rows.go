package sheets

import (
	"fmt"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
)

// valueRows converts expenses to sheet values, header first. Numbers stay
// numeric so the sheet can sum them.
func valueRows(expenses []core.Expense) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	header := make([]any, len(export.Header))
	for i, h := range export.Header {
		header[i] = h
	}
	rows = append(rows, header)
	for _, e := range expenses {
		rows = append(rows, []any{e.ID, e.Date.String(), e.Description, e.Amount, e.Category})
	}
	return rows
}

// quoteSheet wraps a sheet name in single quotes when A1 notation needs it.
func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '!") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}

func columnsRange(sheet string) string {
	return fmt.Sprintf("%s!A:E", quoteSheet(sheet))
}

func startRange(sheet string) string {
	return fmt.Sprintf("%s!A1", quoteSheet(sheet))
}
