package cli

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"expensetracker/internal/core"
)

const listSeparatorWidth = 65

func printList(w io.Writer, expenses iter.Seq[core.Expense]) {
	fmt.Fprintf(w, "%-5s %-12s %-20s %-10s %-15s\n", "ID", "Date", "Description", "Amount", "Category")
	fmt.Fprintln(w, strings.Repeat("-", listSeparatorWidth))
	for e := range expenses {
		fmt.Fprintf(w, "%-5d %-12s %-20s $%-9.2f %-15s\n", e.ID, e.Date, e.Description, e.Amount, e.Category)
	}
}

func printSummary(w io.Writer, s core.Summary, verbose bool) {
	if s.Month == nil {
		fmt.Fprintf(w, "Total expenses: %s\n", core.FormatAmount(s.Total))
		return
	}
	m := s.Month
	fmt.Fprintf(w, "Total expenses for %s: %s\n", core.MonthName(m.Month), core.FormatAmount(m.Total))
	if m.HasBudget {
		if remaining := m.Remaining(); remaining >= 0 {
			fmt.Fprintf(w, "Budget remaining: %s\n", core.FormatAmount(remaining))
		} else {
			fmt.Fprintf(w, "Over budget by: %s\n", core.FormatAmount(-remaining))
		}
	}
	if verbose {
		for _, c := range m.ByCategory {
			fmt.Fprintf(w, "  %-15s %s\n", c.Name, core.FormatAmount(c.Amount))
		}
	}
}

func printBudgetAlert(w io.Writer, a core.BudgetAlert) {
	fmt.Fprintf(w, "Warning: You have exceeded your budget for this month! (%s / %s)\n",
		core.FormatAmount(a.Total), core.FormatAmount(a.Budget))
}
