// Package postgres persists a ledger snapshot in PostgreSQL through a pgx
// connection pool.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"expensetracker/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// Store is safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and creates the schema if
// it does not exist yet.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Load reads expenses in insertion order and all budgets.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, date, description, amount, category FROM expenses ORDER BY position`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query expenses: %w", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Expense, error) {
		var (
			e    core.Expense
			date time.Time
		)
		if err := row.Scan(&e.ID, &date, &e.Description, &e.Amount, &e.Category); err != nil {
			return core.Expense{}, err
		}
		e.Date = core.DateOf(date)
		return e, nil
	})
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("scan expenses: %w", err)
	}

	rows, err = s.pool.Query(ctx, `SELECT month, amount FROM budgets`)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()
	budgets := core.Budgets{}
	for rows.Next() {
		var (
			month  string
			amount float64
		)
		if err := rows.Scan(&month, &amount); err != nil {
			return core.Snapshot{}, fmt.Errorf("scan budget: %w", err)
		}
		budgets[month] = amount
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterate budgets: %w", err)
	}

	return core.Snapshot{Expenses: expenses, Budgets: budgets}.Normalize(), nil
}

// Save replaces both tables with the snapshot in one transaction.
func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}

	expenseRows := make([][]any, len(snap.Expenses))
	for i, e := range snap.Expenses {
		expenseRows[i] = []any{i + 1, e.ID, e.Date.Time, e.Description, e.Amount, e.Category}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"expenses"},
		[]string{"position", "id", "date", "description", "amount", "category"},
		pgx.CopyFromRows(expenseRows),
	); err != nil {
		return fmt.Errorf("copy expenses: %w", err)
	}

	batch := &pgx.Batch{}
	for month, amount := range snap.Budgets {
		batch.Queue(`INSERT INTO budgets (month, amount) VALUES ($1, $2)`, month, amount)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert budgets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to PostgreSQL",
		"expenses", len(snap.Expenses),
		"budgets", len(snap.Budgets))
	return nil
}
