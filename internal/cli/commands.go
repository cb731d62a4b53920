package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/ledger"
)

const (
	targetCSV    = "csv"
	targetSheets = "sheets"
)

func parseAdd(fs *flag.FlagSet, args []string) (action, error) {
	description := fs.String("description", "", "Expense description")
	var amount amountValue
	fs.Var(&amount, "amount", "Expense amount")
	category := fs.String("category", "", "Expense category (default \"General\")")
	if err := parseFlags(fs, args, "description", "amount"); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *App, s *ledger.Store) error {
		res, err := s.Add(ctx, *description, amount.v, *category)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Stdout, "Expense added successfully (ID: %d)\n", res.Expense.ID)
		if res.Alert != nil {
			printBudgetAlert(a.Stdout, *res.Alert)
		}
		return nil
	}, nil
}

func parseUpdate(fs *flag.FlagSet, args []string) (action, error) {
	id := fs.Int("id", 0, "Expense ID")
	description := fs.String("description", "", "New description")
	var amount amountValue
	fs.Var(&amount, "amount", "New amount")
	category := fs.String("category", "", "New category")
	if err := parseFlags(fs, args, "id"); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *App, s *ledger.Store) error {
		patch := core.ExpensePatch{Description: *description, Category: *category}
		if amount.set {
			patch.Amount = &amount.v
		}
		if _, err := s.Update(ctx, *id, patch); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return notice(err, "Error: Expense with ID %d not found.", *id)
			}
			return err
		}
		fmt.Fprintf(a.Stdout, "Expense updated successfully (ID: %d)\n", *id)
		return nil
	}, nil
}

func parseDelete(fs *flag.FlagSet, args []string) (action, error) {
	id := fs.Int("id", 0, "Expense ID")
	if err := parseFlags(fs, args, "id"); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *App, s *ledger.Store) error {
		if err := s.Delete(ctx, *id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return notice(err, "Error: Expense with ID %d not found.", *id)
			}
			return err
		}
		fmt.Fprintln(a.Stdout, "Expense deleted successfully")
		return nil
	}, nil
}

func parseList(fs *flag.FlagSet, args []string) (action, error) {
	category := fs.String("category", "", "Filter by category")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	return func(_ context.Context, a *App, s *ledger.Store) error {
		expenses, err := s.List(*category)
		if err != nil {
			if errors.Is(err, core.ErrNoCategoryMatch) {
				return notice(err, "No expenses found for category: %s", *category)
			}
			return err
		}
		printList(a.Stdout, expenses)
		return nil
	}, nil
}

func parseSummary(fs *flag.FlagSet, args []string) (action, error) {
	month := fs.Int("month", 0, "Month number (1-12)")
	byCategory := fs.Bool("by-category", false, "Break the monthly total down by category")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	return func(_ context.Context, a *App, s *ledger.Store) error {
		summary, err := s.Summary(*month)
		if err != nil {
			return err
		}
		printSummary(a.Stdout, summary, *byCategory)
		return nil
	}, nil
}

func parseSetBudget(fs *flag.FlagSet, args []string) (action, error) {
	month := fs.Int("month", 0, "Month number (1-12)")
	var amount amountValue
	fs.Var(&amount, "amount", "Budget amount")
	if err := parseFlags(fs, args, "month", "amount"); err != nil {
		return nil, err
	}

	return func(ctx context.Context, a *App, s *ledger.Store) error {
		if err := s.SetBudget(ctx, *month, amount.v); err != nil {
			if errors.Is(err, core.ErrInvalidAmount) {
				return notice(err, "Error: Budget must be positive.")
			}
			return err
		}
		fmt.Fprintf(a.Stdout, "Budget for %s set to %s\n", core.MonthName(*month), core.FormatAmount(amount.v))
		return nil
	}, nil
}

func parseExport(fs *flag.FlagSet, args []string) (action, error) {
	file := fs.String("file", "expenses.csv", "Output file name")
	target := fs.String("target", targetCSV, "Export target: csv or sheets")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	switch *target {
	case targetCSV:
		return func(ctx context.Context, a *App, s *ledger.Store) error {
			if err := s.ExportToCSV(ctx, *file); err != nil {
				return err
			}
			fmt.Fprintf(a.Stdout, "Expenses exported to %s\n", *file)
			return nil
		}, nil
	case targetSheets:
		return func(ctx context.Context, a *App, s *ledger.Store) error {
			if s.Len() == 0 {
				return core.ErrNothingToExport
			}
			if a.SheetsExporter == nil {
				return errors.New("google sheets export is not available")
			}
			exp, err := a.SheetsExporter(ctx)
			if err != nil {
				return err
			}
			ref, err := s.Export(ctx, exp)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Stdout, "Expenses exported to %s\n", ref)
			return nil
		}, nil
	}
	return nil, usageError{fmt.Sprintf("invalid target %q: must be one of [csv sheets]", *target)}
}
