// Package cli implements the expense-tracker command line: process
// initialization, subcommand dispatch, output rendering and exit codes.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	"expensetracker/internal/export"
	"expensetracker/internal/export/sheets"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

// SetupLogger builds the process logger from the configured level and
// sets it as the default logger. Logs go to stderr.
func SetupLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = log.ComponentCLI
	if cfg != nil {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// OpenLedger wires the configured persistence backend and, when AMQP_URL is
// set, the event publisher into a ledger store. The returned cleanup
// releases both.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*ledger.Store, func(), error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	var closers []func() error
	if res.Cleanup != nil {
		closers = append(closers, res.Cleanup)
	}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Cleanup failed", log.FieldError, err)
			}
		}
	}

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.WithComponent(log.ComponentAMQP).Warn("AMQP unavailable, ledger events disabled",
				log.FieldError, err)
		} else {
			closers = append(closers, client.Close)
			opts = append(opts, ledger.WithPublisher(client))
		}
	}

	store, err := ledger.Open(ctx, res.Persister, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// NewSheetsExporter builds the Google Sheets export target from config.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (export.Exporter, error) {
	if !cfg.SheetsConfigured() {
		return nil, fmt.Errorf("google sheets export is not configured (set GOOGLE_SPREADSHEET_ID and service account credentials)")
	}
	return sheets.New(ctx, sheets.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
}
