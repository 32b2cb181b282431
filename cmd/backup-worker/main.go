package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"familybudget/internal/amqp"
	"familybudget/internal/backend"
	"familybudget/internal/cli"
	"familybudget/internal/export"
	"familybudget/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("backup-worker")

	logger.Info("Starting backup worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	st, err := backend.Open(cfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to open data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	ctx, cancel := cli.SignalContext()
	defer cancel()

	var appender worker.SnapshotAppender
	if cfg.SheetsEnabled() {
		sheets, err := export.NewSheetsAppender(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		appender = sheets
		logger.Info("Google Sheets snapshots enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets snapshots disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backupWorker := worker.NewBackupWorker(st, cfg.BackupDir, appender)

	// A snapshot on startup covers changes made while the worker was down.
	if err := backupWorker.WriteSnapshot(ctx); err != nil {
		logger.Error("Startup snapshot failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeStateChanged(gctx, func(msg *amqp.StateChangedMessage) error {
			return backupWorker.HandleStateChanged(gctx, msg)
		})
	})
	g.Go(func() error {
		return backupWorker.RunPeriodic(gctx, cfg.BackupInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Backup worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Backup worker stopped gracefully")
}
