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
	"github.com/tuanvumaihuynh/stockledger/internal/http"
	"github.com/tuanvumaihuynh/stockledger/internal/ledger"
	"github.com/tuanvumaihuynh/stockledger/internal/log"
	"github.com/tuanvumaihuynh/stockledger/internal/lowstock"
	"github.com/tuanvumaihuynh/stockledger/internal/notify"
	"github.com/tuanvumaihuynh/stockledger/internal/relay"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stockledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/stockledger/internal/telemetry"
	"github.com/tuanvumaihuynh/stockledger/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
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
		HTTP      config.HTTP
		Relay     config.Relay
		Kafka     config.Kafka
		Otel      config.Otel
		Inventory config.Inventory
		Notifier  config.Notifier
		Session   config.Session
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if cfg.Log.Service == "" {
		cfg.Log.Service = "sl-standalone"
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

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	productRepository := repository.NewProductRepository(dbClient)
	saleRepository := repository.NewSaleRepository(dbClient)
	purchaseRepository := repository.NewPurchaseRepository(dbClient)
	supplierRepository := repository.NewSupplierRepository(dbClient)
	orderRepository := repository.NewOrderRepository(dbClient)
	notificationRepository := repository.NewNotificationRepository(dbClient)
	accountRepository := repository.NewAccountRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	publisher := event.NewOutboxPublisher(outboxMsgRepository)
	stockLedger := ledger.New(ledger.NewPostgresDocuments(dbClient, productRepository))

	accountService := service.NewAccountService(dbClient, accountRepository)
	notificationService := service.NewNotificationService(notificationRepository, accountRepository)
	sessions := session.NewManager(accountService, cfg.Session.CacheSize)

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
		svc := http.New(cfg.HTTP, logger, dbClient, sessions, http.Services{
			Account:      accountService,
			Product:      service.NewProductService(cfg.Inventory, logger, dbClient, stockLedger, productRepository, publisher),
			Sale:         service.NewSaleService(cfg.Inventory, logger, stockLedger, saleRepository, publisher),
			Purchase:     service.NewPurchaseService(stockLedger, purchaseRepository),
			Supplier:     service.NewSupplierService(supplierRepository),
			Order:        service.NewOrderService(orderRepository),
			Notification: notificationService,
			Analytics:    service.NewAnalyticsService(cfg.Inventory, productRepository, saleRepository),
		})
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
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
