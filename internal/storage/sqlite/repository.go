// Package sqlite persists a ledger snapshot in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads expenses in insertion order and all budgets.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount, category FROM expenses ORDER BY position`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var snap core.Snapshot
	for rows.Next() {
		var (
			e    core.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &e.Amount, &e.Category); err != nil {
			return core.Snapshot{}, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return core.Snapshot{}, fmt.Errorf("expense %d date %q: %w", e.ID, date, err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterate expenses: %w", err)
	}

	brows, err := r.db.QueryContext(ctx, `SELECT month, amount FROM budgets`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query budgets: %w", err)
	}
	defer brows.Close()

	snap.Budgets = core.Budgets{}
	for brows.Next() {
		var (
			month  string
			amount float64
		)
		if err := brows.Scan(&month, &amount); err != nil {
			return core.Snapshot{}, fmt.Errorf("scan budget: %w", err)
		}
		snap.Budgets[month] = amount
	}
	if err := brows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterate budgets: %w", err)
	}

	return snap.Normalize(), nil
}

// Save replaces both tables with the snapshot in one transaction.
func (r *Repository) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}

	insExpense, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, id, date, description, amount, category) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare expense insert: %w", err)
	}
	defer insExpense.Close()
	for i, e := range snap.Expenses {
		if _, err := insExpense.ExecContext(ctx, i+1, e.ID, e.Date.String(), e.Description, e.Amount, e.Category); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	insBudget, err := tx.PrepareContext(ctx, `INSERT INTO budgets (month, amount) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare budget insert: %w", err)
	}
	defer insBudget.Close()
	for month, amount := range snap.Budgets {
		if _, err := insBudget.ExecContext(ctx, month, amount); err != nil {
			return fmt.Errorf("insert budget %s: %w", month, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"expenses", len(snap.Expenses),
		"budgets", len(snap.Budgets))
	return nil
}
