package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clubsure/platform/internal/app"
	"github.com/clubsure/platform/internal/auth"
	"github.com/clubsure/platform/internal/infra"
	"github.com/clubsure/platform/internal/notify"
	"github.com/clubsure/platform/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("reminder worker failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("reminder-worker connected to postgres")

	store, err := storage.New(ctx, storage.Config{
		Type:      cfg.StorageType,
		BasePath:  cfg.StorageBasePath,
		BaseURL:   cfg.StorageBaseURL,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	var notifier notify.Notifier
	if cfg.KafkaEnabled {
		notifier = notify.NewKafkaNotifier(producer, logger)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	application := app.New(app.Deps{
		Pool:     pool,
		Store:    store,
		Notifier: notifier,
		JWTMgr:   auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry),
		Config:   cfg,
		Logger:   logger,
	})

	application.Worker.Run(ctx)
	return nil
}
