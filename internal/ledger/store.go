// Package ledger implements the ledger store: expense records and monthly
// budgets held in memory and written back through a Persister after every
// successful mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
)

// Persister loads and saves the complete ledger state.
type Persister interface {
	Load(ctx context.Context) (core.Snapshot, error)
	Save(ctx context.Context, s core.Snapshot) error
}

// Publisher receives committed ledger events.
type Publisher interface {
	Publish(ctx context.Context, e core.Event) error
}

// Store is not safe for concurrent use; one process owns the data.
type Store struct {
	persister Persister
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
	strict    bool

	expenses []core.Expense
	budgets  core.Budgets
}

type Option func(*Store)

// WithClock overrides the time source used for dates and the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// WithPublisher enables event publishing. A nil publisher is ignored.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithStrictLoad makes Open fail on corrupt data instead of starting empty.
// Read-only consumers use it so a damaged file is never mirrored as empty.
func WithStrictLoad() Option {
	return func(s *Store) { s.strict = true }
}

// AddResult is returned by Add. Alert is set when the add pushed the
// current month past its budget.
type AddResult struct {
	Expense core.Expense
	Alert   *core.BudgetAlert
}

// Open builds a store and loads its state. A missing file yields an empty
// store, and so does malformed data after a warning unless WithStrictLoad
// is given. Any other load error
// is returned, since saving over state that could not be read would
// replace it.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("ledger: nil persister")
	}
	s := &Store{
		persister: p,
		logger:    log.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := p.Load(ctx)
	switch {
	case errors.Is(err, core.ErrCorruptData) && !s.strict:
		s.logger.WarnContext(ctx, "Could not read data file, starting fresh",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		snap = core.Snapshot{}
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to load ledger",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	snap = snap.Normalize()
	s.expenses = snap.Expenses
	s.budgets = snap.Budgets

	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldCount, len(s.expenses), "budgets", len(s.budgets))
	return s, nil
}

// commit persists the candidate state and swaps it in only on success,
// so memory never runs ahead of the persisted file.
func (s *Store) commit(ctx context.Context, expenses []core.Expense, budgets core.Budgets) error {
	snap := core.Snapshot{Expenses: expenses, Budgets: budgets}.Normalize()
	if err := s.persister.Save(ctx, snap); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return fmt.Errorf("save ledger: %w", err)
	}
	s.expenses = snap.Expenses
	s.budgets = snap.Budgets
	return nil
}

func (s *Store) publish(ctx context.Context, e core.Event) {
	if s.publisher == nil {
		return
	}
	e.Timestamp = s.now()
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			log.FieldEventType, string(e.Type), log.FieldError, err)
	}
}

func (s *Store) nextID() int {
	maxID := 0
	for _, e := range s.expenses {
		maxID = max(maxID, e.ID)
	}
	return maxID + 1
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
}

// Add records a new expense dated today.
func (s *Store) Add(ctx context.Context, description string, amount float64, category string) (AddResult, error) {
	if err := core.ValidateAmount(amount); err != nil {
		return AddResult{}, err
	}
	if strings.TrimSpace(category) == "" {
		category = core.DefaultCategory
	}
	now := s.now()
	e := core.Expense{
		ID:          s.nextID(),
		Date:        core.DateOf(now),
		Description: description,
		Amount:      amount,
		Category:    category,
	}
	if err := e.Validate(); err != nil {
		return AddResult{}, err
	}

	next := append(slices.Clone(s.expenses), e)
	if err := s.commit(ctx, next, s.budgets); err != nil {
		return AddResult{}, err
	}
	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().WithOperation(log.OpCreate).WithExpense(e.ID, e.Description, e.Amount, e.Category).ToSlice()...)
	s.publish(ctx, core.Event{Type: core.EventExpenseAdded, ExpenseID: e.ID, Month: e.Date.Month(), Amount: e.Amount})

	res := AddResult{Expense: e}
	month := int(now.Month())
	if budget, ok := s.budgets.Get(month); ok {
		total := s.MonthlyTotal(month, now.Year())
		if total > budget {
			res.Alert = &core.BudgetAlert{Month: month, Total: total, Budget: budget}
			s.logger.WarnContext(ctx, "Monthly budget exceeded",
				log.NewFields().WithBudget(month, total, budget).ToSlice()...)
			s.publish(ctx, core.Event{Type: core.EventBudgetExceeded, Month: month, Amount: budget, Total: total})
		}
	}
	return res, nil
}

// Update applies patch to the expense with the given id. The budget is not
// re-checked.
func (s *Store) Update(ctx context.Context, id int, patch core.ExpensePatch) (core.Expense, error) {
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err := patch.Validate(); err != nil {
		return core.Expense{}, err
	}

	next := slices.Clone(s.expenses)
	next[i] = patch.Apply(next[i])
	if err := s.commit(ctx, next, s.budgets); err != nil {
		return core.Expense{}, err
	}
	updated := s.expenses[i]
	s.logger.InfoContext(ctx, "Expense updated",
		log.NewFields().WithOperation(log.OpUpdate).WithExpense(updated.ID, updated.Description, updated.Amount, updated.Category).ToSlice()...)
	s.publish(ctx, core.Event{Type: core.EventExpenseUpdated, ExpenseID: id, Month: updated.Date.Month(), Amount: updated.Amount})
	return updated, nil
}

// Delete removes the expense with the given id.
func (s *Store) Delete(ctx context.Context, id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	removed := s.expenses[i]

	next := slices.Delete(slices.Clone(s.expenses), i, i+1)
	if err := s.commit(ctx, next, s.budgets); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	s.publish(ctx, core.Event{Type: core.EventExpenseDeleted, ExpenseID: id, Month: removed.Date.Month(), Amount: removed.Amount})
	return nil
}

// Get returns the expense with the given id.
func (s *Store) Get(id int) (core.Expense, error) {
	i := s.indexOf(id)
	if i < 0 {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return s.expenses[i], nil
}

// Len returns the number of recorded expenses.
func (s *Store) Len() int {
	return len(s.expenses)
}

// List returns the expenses in insertion order, optionally filtered by a
// case-insensitive exact category match.
func (s *Store) List(category string) (iter.Seq[core.Expense], error) {
	expenses := s.expenses
	match := func(core.Expense) bool { return true }
	if category != "" {
		match = func(e core.Expense) bool { return strings.EqualFold(e.Category, category) }
		if !slices.ContainsFunc(expenses, match) {
			return nil, fmt.Errorf("%w: %s", core.ErrNoCategoryMatch, category)
		}
	}
	if len(expenses) == 0 {
		return nil, core.ErrNoExpenses
	}
	return func(yield func(core.Expense) bool) {
		for _, e := range expenses {
			if !match(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}, nil
}

// Total sums every expense.
func (s *Store) Total() float64 {
	var total float64
	for _, e := range s.expenses {
		total += e.Amount
	}
	return total
}

// MonthlyTotal sums the expenses dated in the given month and year.
func (s *Store) MonthlyTotal(month, year int) float64 {
	var total float64
	for _, e := range s.expenses {
		if e.Date.In(month, year) {
			total += e.Amount
		}
	}
	return total
}

// CurrentMonthlyTotal is MonthlyTotal for month in the current year.
func (s *Store) CurrentMonthlyTotal(month int) float64 {
	return s.MonthlyTotal(month, s.now().Year())
}

// Budget returns the budget for month, if set.
func (s *Store) Budget(month int) (float64, bool) {
	return s.budgets.Get(month)
}

// Summary reports the all-time total when month is 0, otherwise the given
// month of the current year with its budget position.
func (s *Store) Summary(month int) (core.Summary, error) {
	if month == 0 {
		return core.Summary{Total: s.Total()}, nil
	}
	if err := core.ValidateMonth(month); err != nil {
		return core.Summary{}, err
	}

	year := s.now().Year()
	ms := core.MonthSummary{Year: year, Month: month}
	index := map[string]int{}
	for _, e := range s.expenses {
		if !e.Date.In(month, year) {
			continue
		}
		ms.Total += e.Amount
		i, ok := index[e.Category]
		if !ok {
			i = len(ms.ByCategory)
			index[e.Category] = i
			ms.ByCategory = append(ms.ByCategory, core.CategoryAmount{Name: e.Category})
		}
		ms.ByCategory[i].Amount += e.Amount
	}
	ms.Budget, ms.HasBudget = s.budgets.Get(month)
	return core.Summary{Total: ms.Total, Month: &ms}, nil
}

// SetBudget sets or overwrites the budget for a month. Budgets apply to
// that month in every year.
func (s *Store) SetBudget(ctx context.Context, month int, amount float64) error {
	if err := core.ValidateAmount(amount); err != nil {
		return err
	}
	if err := core.ValidateMonth(month); err != nil {
		return err
	}
	if err := s.commit(ctx, s.expenses, s.budgets.With(month, amount)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget set",
		log.FieldOperation, log.OpSetBudget, log.FieldMonth, month, log.FieldBudget, amount)
	s.publish(ctx, core.Event{Type: core.EventBudgetSet, Month: month, Amount: amount})
	return nil
}

// Export hands every expense to the exporter and returns its reference.
func (s *Store) Export(ctx context.Context, exp export.Exporter) (string, error) {
	if len(s.expenses) == 0 {
		return "", core.ErrNothingToExport
	}
	ref, err := exp.Export(ctx, slices.Clone(s.expenses))
	if err != nil {
		return "", fmt.Errorf("export expenses: %w", err)
	}
	s.logger.InfoContext(ctx, "Expenses exported",
		log.FieldOperation, log.OpExport, log.FieldExportRef, ref, log.FieldCount, len(s.expenses))
	return ref, nil
}

// ExportToCSV writes every expense to path, replacing any existing file.
func (s *Store) ExportToCSV(ctx context.Context, path string) error {
	_, err := s.Export(ctx, export.NewCSVFile(path))
	return err
}
