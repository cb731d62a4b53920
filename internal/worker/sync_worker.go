// Package worker keeps a Google Sheets copy of the ledger in step with it.
package worker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

// LedgerOpener opens a fresh view of the ledger. The worker reopens it for
// every sync so it always sees what the CLI last wrote.
type LedgerOpener func(ctx context.Context) (*ledger.Store, func(), error)

// SyncWorker mirrors the full expense list to an export target whenever a
// ledger event reports a change to the expenses.
type SyncWorker struct {
	open     LedgerOpener
	exporter export.Exporter
	logger   *log.Logger
	now      func() time.Time

	// mu serializes syncs from the consumer and the ticker.
	mu       sync.Mutex
	lastSync time.Time
}

func NewSyncWorker(open LedgerOpener, exporter export.Exporter, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &SyncWorker{
		open:     open,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentSheets),
		now:      time.Now,
	}
}

// HandleEvent processes one ledger event. Budget events leave the expense
// list untouched and are skipped, as are events older than the last sync.
func (w *SyncWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	eventsTotal.WithLabelValues(msg.Type).Inc()

	switch core.EventType(msg.Type) {
	case core.EventExpenseAdded, core.EventExpenseUpdated, core.EventExpenseDeleted:
	default:
		w.logger.DebugContext(ctx, "Skipping ledger event", log.FieldEventType, msg.Type)
		return nil
	}

	if last := w.LastSync(); !last.IsZero() && msg.Timestamp.Before(last) {
		w.logger.DebugContext(ctx, "Ledger event already covered by a later sync",
			log.FieldEventType, msg.Type, log.FieldExpenseID, msg.ExpenseID)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldMessageID, msg.ID, log.FieldEventType, msg.Type, log.FieldExpenseID, msg.ExpenseID)
	return w.Sync(ctx)
}

// LastSync returns the start time of the last successful sync.
func (w *SyncWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}

// Sync exports the current expense list. An empty ledger clears the target
// down to its header row.
func (w *SyncWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	started := w.now()

	err := w.sync(ctx, started)
	syncDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		syncsTotal.WithLabelValues("error").Inc()
		return err
	}
	syncsTotal.WithLabelValues("ok").Inc()
	lastSyncTimestamp.Set(float64(started.Unix()))
	return nil
}

func (w *SyncWorker) sync(ctx context.Context, started time.Time) error {
	store, cleanup, err := w.open(ctx)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	var expenses []core.Expense
	seq, err := store.List("")
	switch {
	case errors.Is(err, core.ErrNoExpenses):
	case err != nil:
		return fmt.Errorf("list expenses: %w", err)
	default:
		expenses = slices.Collect(seq)
	}

	ref, err := w.exporter.Export(ctx, expenses)
	if err != nil {
		return fmt.Errorf("export expenses: %w", err)
	}
	w.lastSync = started
	exportedExpenses.Set(float64(len(expenses)))

	w.logger.InfoContext(ctx, "Ledger mirrored",
		log.FieldOperation, log.OpExport, log.FieldExportRef, ref, log.FieldCount, len(expenses))
	return nil
}

// Run performs a startup sync, then syncs on every tick until ctx is
// cancelled. Failed syncs are logged and retried on the next tick.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Sync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}
