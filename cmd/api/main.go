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

	"github.com/elis-elis/bestbuy/internal/config"
	"github.com/elis-elis/bestbuy/internal/delivery/events"
	httpDelivery "github.com/elis-elis/bestbuy/internal/delivery/http"
	"github.com/elis-elis/bestbuy/internal/delivery/http/handler"
	"github.com/elis-elis/bestbuy/internal/domain"
	"github.com/elis-elis/bestbuy/internal/pkg/cache"
	"github.com/elis-elis/bestbuy/internal/pkg/database"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
	cacheRepo "github.com/elis-elis/bestbuy/internal/repository/cache"
	"github.com/elis-elis/bestbuy/internal/repository/postgres"
	"github.com/elis-elis/bestbuy/internal/usecase/catalog"
	"github.com/elis-elis/bestbuy/internal/usecase/order"

	_ "github.com/elis-elis/bestbuy/docs"
)

// @title Best Buy Store API
// @version 1.0
// @description A store inventory system with promotions, multi-line orders, caching, and event notifications.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/elis-elis/bestbuy
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Product catalog endpoints

// @tag.name Orders
// @tag.description Order placement endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	appLogger.Info("Starting Best Buy Store API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", err)
	}
	appLogger.Info("Database migrations applied")

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	catalogRepo := postgres.NewCatalogRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	redisCache := cacheRepo.NewRedisCache(redisClient, cfg.Cache.CatalogTTL)

	// The catalog lives in memory; the database is the durable copy loaded
	// once at startup.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	products, err := catalogRepo.LoadAll(loadCtx)
	cancelLoad()
	if err != nil {
		appLogger.Fatal("Failed to load catalog", err)
	}
	store := domain.NewStore(products)
	appLogger.Infof("Loaded %d products into the store", len(products))

	catalogService := catalog.NewService(store, catalogRepo, redisCache, appLogger)
	orderService := order.NewService(store, catalogRepo, orderRepo, redisCache, publisher, appLogger)

	catalogHandler := handler.NewCatalogHandler(catalogService, appLogger)
	orderHandler := handler.NewOrderHandler(orderService, appLogger)

	router := httpDelivery.NewRouter(catalogHandler, orderHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
