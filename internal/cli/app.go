package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

// Exit codes returned by App.Run.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const programName = "expense-tracker"

// StoreOpener opens the ledger store for one invocation. The returned
// cleanup is called once the command has finished.
type StoreOpener func(ctx context.Context) (*ledger.Store, func(), error)

// ExporterFactory builds a remote export target on demand.
type ExporterFactory func(ctx context.Context) (export.Exporter, error)

// App dispatches one command line invocation.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger

	// StrictExitCodes makes validation and informational outcomes exit 1.
	StrictExitCodes bool

	OpenStore      StoreOpener
	SheetsExporter ExporterFactory
}

type action func(ctx context.Context, a *App, s *ledger.Store) error

type command struct {
	name  string
	help  string
	parse func(fs *flag.FlagSet, args []string) (action, error)
}

var commands = []command{
	{"add", "Add a new expense", parseAdd},
	{"update", "Update an existing expense", parseUpdate},
	{"delete", "Delete an expense", parseDelete},
	{"list", "List all expenses", parseList},
	{"summary", "Show expense summary", parseSummary},
	{"set-budget", "Set monthly budget", parseSetBudget},
	{"export", "Export expenses to CSV or Google Sheets", parseExport},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// WantsUsage reports whether args only ask for the top-level usage text.
// Such invocations need neither config nor a store.
func WantsUsage(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "-h", "-help", "--help", "help":
		return true
	}
	return false
}

// Run executes args (without the program name) and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	logger := a.Logger
	if logger == nil {
		logger = log.Discard()
	}

	if WantsUsage(args) {
		a.usage(a.Stdout)
		return ExitOK
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(a.Stderr, "%s: unknown command %q\n\n", programName, args[0])
		a.usage(a.Stderr)
		return ExitUsage
	}

	fs := flag.NewFlagSet(programName+" "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	act, err := cmd.parse(fs, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(a.Stderr, "%s %s: %v\n", programName, cmd.name, err)
			fs.Usage()
		}
		return ExitUsage
	}

	if a.OpenStore == nil {
		fmt.Fprintln(a.Stderr, "Error: no ledger store configured")
		return ExitFailure
	}
	store, cleanup, err := a.OpenStore(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open ledger", log.FieldError, err)
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		return ExitFailure
	}
	if cleanup != nil {
		defer cleanup()
	}

	return a.exitCode(act(ctx, a, store))
}

// exitCode prints the user-facing outcome of err and maps it to an exit
// code.
func (a *App) exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if msg, ok := describe(err); ok {
		fmt.Fprintln(a.Stdout, msg)
		if a.StrictExitCodes {
			return ExitFailure
		}
		return ExitOK
	}
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	return ExitFailure
}

// noticeError attaches a command-specific message to a validation or
// informational error.
type noticeError struct {
	err error
	msg string
}

func (e *noticeError) Error() string { return e.err.Error() }
func (e *noticeError) Unwrap() error { return e.err }

func notice(err error, format string, args ...any) error {
	return &noticeError{err: err, msg: fmt.Sprintf(format, args...)}
}

// describe returns the message for validation and informational outcomes.
// Anything else is an operational failure.
func describe(err error) (string, bool) {
	var ne *noticeError
	switch {
	case errors.As(err, &ne):
		return ne.msg, true
	case errors.Is(err, core.ErrInvalidAmount):
		return "Error: Amount must be positive.", true
	case errors.Is(err, core.ErrInvalidMonth):
		return "Error: Month must be between 1 and 12.", true
	case errors.Is(err, core.ErrEmptyDescription):
		return "Error: Description cannot be empty.", true
	case errors.Is(err, core.ErrNoExpenses):
		return "No expenses recorded.", true
	case errors.Is(err, core.ErrNothingToExport):
		return "No expenses to export.", true
	}
	return "", false
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// parseFlags parses args, rejects positional arguments and checks that
// every required flag was given.
func parseFlags(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageError{fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " "))}
	}
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	var missing []string
	for _, name := range required {
		if !seen[name] {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) > 0 {
		return usageError{fmt.Sprintf("the following arguments are required: %s", strings.Join(missing, ", "))}
	}
	return nil
}

// amountValue is a flag.Value for money amounts. Sign is kept so the store
// reports non-positive amounts itself.
type amountValue struct {
	v   float64
	set bool
}

func (a *amountValue) String() string {
	if a == nil || !a.set {
		return ""
	}
	return core.FormatCSVAmount(a.v)
}

func (a *amountValue) Set(s string) error {
	v, err := core.ParseAmount(s)
	if err != nil {
		return err
	}
	a.v, a.set = v, true
	return nil
}

func (a *App) usage(w io.Writer) {
	fmt.Fprintln(w, "Expense Tracker - Manage your finances")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Usage: %s <command> [flags]\n", programName)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.help)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run '%s <command> -h' for command flags.\n", programName)
}
