package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"moneymanager/internal/amqp"
	"moneymanager/internal/auth"
	"moneymanager/internal/cache"
	"moneymanager/internal/cli"
	"moneymanager/internal/config"
	apphttp "moneymanager/internal/http"
	"moneymanager/internal/log"
	"moneymanager/internal/report"
	"moneymanager/internal/services"
)

const (
	snapshotCacheSize    = 1000
	cacheCleanupInterval = 10 * time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(config.Load().LogLevel)

	cfg, err := cli.LoadAndValidateConfig((*config.Config).ValidateServer)
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}
	if err := run(logger, cfg); err != nil {
		cli.Fatal(logger, "Server stopped with error", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(logger *log.Logger, cfg *config.Config) error {
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	be, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithTokenIssuer(auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)),
	}

	cacheManager := cache.NewManager(logger.Logger)
	if cfg.SnapshotCacheTTL > 0 {
		snapshots := cache.NewLRUCache[report.Snapshot](snapshotCacheSize, cfg.SnapshotCacheTTL)
		cacheManager.Register(snapshots)
		opts = append(opts, services.WithSnapshotCache(snapshots))
	}

	// Change events are optional; the API keeps serving without a broker.
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err.Error())
		} else {
			defer publisher.Close()
			opts = append(opts, services.WithPublisher(publisher))
			logger.Info("Change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(be.Store, be.Provider, opts...)
	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting moneymanager server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cacheManager.Run(gctx, cacheCleanupInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
