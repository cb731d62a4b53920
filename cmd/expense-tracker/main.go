package main

import (
	"context"
	"fmt"
	"os"

	"expensetracker/internal/cli"
	"expensetracker/internal/export"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	args := os.Args[1:]
	if cli.WantsUsage(args) {
		app := &cli.App{Stdout: os.Stdout, Stderr: os.Stderr}
		return app.Run(context.Background(), args)
	}

	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger := cli.SetupLogger(nil)
		logger.Error("Configuration validation failed", log.FieldError, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitFailure
	}
	logger := cli.SetupLogger(cfg)

	ctx, stop := cli.SignalContext()
	defer stop()

	app := &cli.App{
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Logger:          logger,
		StrictExitCodes: cfg.StrictExitCodes,
		OpenStore: func(ctx context.Context) (*ledger.Store, func(), error) {
			return cli.OpenLedger(ctx, cfg, logger)
		},
		SheetsExporter: func(ctx context.Context) (export.Exporter, error) {
			return cli.NewSheetsExporter(ctx, cfg)
		},
	}

	logger.Debug("Starting expense tracker", log.FieldBackend, cfg.DataBackend)
	return app.Run(ctx, args)
}
