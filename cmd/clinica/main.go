package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clinica/internal/amqp"
	"clinica/internal/backend"
	"clinica/internal/cache"
	"clinica/internal/cli"
	"clinica/internal/export"
	apphttp "clinica/internal/http"
	applog "clinica/internal/log"
	"clinica/internal/services"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentApp)
	logger.Info("Starting clinica", "port", cfg.Port, "backend", cfg.DataBackend)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}

	reports := services.NewReportService(res.Backend, services.ReportServiceConfig{
		CacheSize: cfg.ReportCacheSize,
		CacheTTL:  cfg.ReportCacheTTL,
	})
	caches := cache.NewManager()
	reports.RegisterCaches(caches)
	caches.StartCleanup(time.Minute)

	// exports stay disabled when the broker is missing or unreachable
	var publisher services.ExportPublisher
	var amqpClient *amqp.Client
	if cfg.ExportsEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without exports", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	renderer, err := export.NewRenderer()
	if err != nil {
		cli.Fatal(logger, "Failed to parse print templates", err)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Reports:            reports,
		Ledger:             res.Backend,
		Clinics:            res.Backend,
		Exports:            services.NewExportService(publisher),
		Renderer:           renderer,
		Health:             res,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		caches.Stop()
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	})

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cli.Fatal(logger, "HTTP server failed", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
