package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/event"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/lowstock"
	"github.com/tuanvumaihuynh/stockledger/internal/notify"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/stockledger/internal/telemetry"
	"github.com/tuanvumaihuynh/stockledger/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running notifier application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log       config.Log
		Postgres  config.Postgres
		Kafka     config.Kafka
		Otel      config.Otel
		Inventory config.Inventory
		Notifier  config.Notifier
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if cfg.Log.Service == "" {
		cfg.Log.Service = "sl-notifier"
	}
	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	productRepository := repository.NewProductRepository(dbClient)
	notificationRepository := repository.NewNotificationRepository(dbClient)
	accountRepository := repository.NewAccountRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	notificationService := service.NewNotificationService(notificationRepository, accountRepository)
	publisher := event.NewOutboxPublisher(outboxMsgRepository)

	var pusher event.Pusher
	if cfg.Notifier.PushWebhookURL != "" {
		pusher = notify.NewPushClient(cfg.Notifier)
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer, notificationService, pusher)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := lowstock.NewSweeper(cfg.Inventory, logger, productRepository, publisher)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running low stock sweeper: %w", err))
		}
		logger.InfoContext(ctx, "low stock sweeper started")

		<-interruptChan

		logger.InfoContext(ctx, "low stock sweeper is shutting down")
		cleanup()

		logger.InfoContext(ctx, "low stock sweeper is stopped")
	})

	wg.Wait()

	return nil
}
