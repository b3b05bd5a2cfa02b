package main

import (
	"context"
	"errors"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/backend"
	"clinica/internal/cli"
	applog "clinica/internal/log"
	"clinica/internal/services"
	gsheet "clinica/internal/sheets/google"
	"clinica/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker)
	logger.Info("Starting report-worker", "backend", cfg.DataBackend)

	if !cfg.ExportsEnabled() {
		cli.Fatal(logger, "Worker cannot start", errors.New("AMQP_URL is required"))
	}
	if cfg.GoogleSpreadsheetID == "" {
		cli.Fatal(logger, "Worker cannot start", errors.New("GOOGLE_SPREADSHEET_ID is required"))
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}

	// the worker always rebuilds, so its cache only shares concurrent loads
	reports := services.NewReportService(res.Backend, services.ReportServiceConfig{
		CacheSize: cfg.ReportCacheSize,
		CacheTTL:  cfg.ReportCacheTTL,
	})
	exportWorker := worker.NewExportWorker(reports, sheetsClient, gsheet.TabName)

	scheduler := services.NewClosingScheduler(
		res.Backend,
		services.NewExportService(amqpClient),
		services.MonthClosingChecker{Day: cfg.ClosingDay},
		cfg.ClosingCheckInterval,
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := scheduler.Stop(ctx); err != nil {
			logger.Warn("Closing scheduler did not stop in time", "error", err)
		}
		_ = amqpClient.Close()
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	})

	if err := scheduler.Start(ctx); err != nil {
		cli.Fatal(logger, "Failed to start closing scheduler", err)
	}

	go func() {
		err := amqpClient.ConsumeReportExports(ctx, exportWorker.HandleExportMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			cli.Fatal(logger, "Message consumption failed", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
