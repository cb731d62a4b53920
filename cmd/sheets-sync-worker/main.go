package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/ledger"
	"expensetracker/internal/log"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger(nil).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)
	logger.Info("Starting sheets-sync-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	exporter, err := cli.NewSheetsExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)
	open := func(ctx context.Context) (*ledger.Store, func(), error) {
		res, err := factory.CreateBackend(ctx, bcfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if res.Cleanup != nil {
				_ = res.Cleanup()
			}
		}
		store, err := ledger.Open(ctx, res.Persister, ledger.WithLogger(logger), ledger.WithStrictLoad())
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return store, cleanup, nil
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(open, exporter, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.WorkerHTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.WorkerHTTPAddr,
			Handler:           worker.NewOpsHandler(syncWorker),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Ops endpoint listening", "addr", cfg.WorkerHTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Ops endpoint failed", log.FieldError, err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		if err := amqpClient.Consume(ctx, syncWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
		cancel()
	}()

	if err := syncWorker.Run(ctx, cfg.SyncInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Sync worker stopped", log.FieldError, err)
	}
	logger.Info("Worker shutdown complete")
}
