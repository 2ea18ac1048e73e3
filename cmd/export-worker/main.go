package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"moneymanager/internal/amqp"
	"moneymanager/internal/cli"
	"moneymanager/internal/config"
	"moneymanager/internal/log"
	ports "moneymanager/internal/sheets"
	gsheet "moneymanager/internal/sheets/google"
	"moneymanager/internal/sheets/memory"
	"moneymanager/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(config.Load().LogLevel).WithComponent(log.ComponentWorker)

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateExporter)
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}
	if err := run(logger, cfg); err != nil {
		cli.Fatal(logger, "Export worker stopped with error", err)
	}
	logger.Info("Export worker stopped")
}

func run(logger *log.Logger, cfg *config.Config) error {
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	be, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	var exporter ports.ReportExporter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.ExportSheetPrefix)
		if err != nil {
			return err
		}
		exporter = client
		logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exporter = memory.New()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, reports are built but not exported")
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer consumer.Close()

	w := worker.NewExportWorker(be.Store, exporter)

	// Catch up on changes made while the worker was down.
	logger.Info("Performing startup export", log.FieldOperation, log.OpExport)
	if err := w.ExportAll(ctx, be.Store); err != nil {
		logger.Error("Startup export incomplete", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consumer.ConsumeLedgerChanged(gctx, w.HandleLedgerChanged)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}
