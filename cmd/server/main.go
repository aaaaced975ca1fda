package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmapos/config"
	"pharmapos/internal/api"
	"pharmapos/internal/broker"
	"pharmapos/internal/command"
	"pharmapos/internal/models"
	"pharmapos/internal/payment"
	"pharmapos/internal/redisclient"
	"pharmapos/internal/service"
	"pharmapos/internal/stock"
	"pharmapos/internal/store"
	"pharmapos/internal/util"
	"pharmapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Pharmacy.Environment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting pharmacy POS service",
		zap.String("pharmacy", cfg.Pharmacy.PharmacyName()))

	tp, err := util.InitTracer("pharmapos", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Pharmacy.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	// Seed the in-memory ledger and level tracker from the catalog: one
	// presence entry per unit on hand.
	ledger := stock.NewLedger()
	levels := stock.NewLevelTracker(cfg.Stock.LowStockThreshold)

	ctx := context.Background()
	inventory, err := db.GetInventory(ctx)
	if err != nil {
		log.Printf("Failed to load inventory: %v", err)
	}
	for _, row := range inventory {
		for i := 0; i < row.Qty; i++ {
			ledger.Add(row.Item)
		}
		levels.SetLevel(row.Name, row.Qty)
		util.StockLevelGauge.WithLabelValues(row.Name).Set(float64(row.Qty))
		if err := redisClient.InitLevel(ctx, row.Name, row.Qty); err != nil {
			logger.Warn("Failed to init Redis level",
				zap.String("product", row.Name), zap.Error(err))
		}
	}
	log.Printf("Inventory loaded: %d products", len(inventory))

	levels.Subscribe(func(product string, level int) {
		logger.Warn("Stock low",
			zap.String("product", product),
			zap.Int("level", level),
			zap.Int("threshold", levels.Threshold()))
		util.StockLowAlertsTotal.Inc()
	})
	levels.SubscribeChange(func(product string, qty, level int) {
		util.StockLevelGauge.WithLabelValues(product).Set(float64(level))
		if _, err := redisClient.DeductLevel(ctx, product, qty); err != nil {
			logger.Warn("Failed to mirror level to Redis",
				zap.String("product", product), zap.Error(err))
		}
	})
	levels.Subscribe(func(product string, level int) {
		event := &models.StockLowEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeStockLow,
				Timestamp: time.Now(),
			},
			Product:   product,
			Level:     level,
			Threshold: levels.Threshold(),
		}
		if err := eventPublisher.PublishStockLow(ctx, event); err != nil {
			logger.Error("Failed to publish StockLow event", zap.Error(err))
		}
	})

	dispatcher := payment.NewDispatcher(
		payment.NewCashTill(cfg.Payment.TillBalance),
		payment.NewCreditLine(cfg.Payment.CreditLimit),
		payment.NewWallet(cfg.Payment.WalletBalance),
	)

	orchestrator := service.NewSaleOrchestrator(ledger, dispatcher, levels)
	orders := service.NewLifecycleTracker(eventPublisher)
	saleService := service.NewSaleService(
		orchestrator,
		command.NewSaleBook(),
		command.NewInvoker(),
		orders,
		db,
		eventPublisher,
		redisClient,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	orderConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales, cfg.Kafka.ConsumerGroup)
	orderWorker := worker.NewOrderWorker(orderConsumer, orders)
	go func() {
		if err := orderWorker.Start(workerCtx); err != nil {
			log.Printf("Order worker error: %v", err)
		}
	}()

	deliveryConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales, "pharmapos-delivery-group")
	deliveryWorker := worker.NewDeliveryWorker(deliveryConsumer, orders)
	go func() {
		if err := deliveryWorker.Start(workerCtx); err != nil {
			log.Printf("Delivery worker error: %v", err)
		}
	}()

	if cfg.Pharmacy.Environment() == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(saleService, db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	orderWorker.Stop()
	deliveryWorker.Stop()

	log.Println("Server exited")
}
