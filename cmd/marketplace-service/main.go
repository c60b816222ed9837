package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-marketplace/internal/api/handlers"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/leader"
	"auction-marketplace/internal/infrastructure/ledger"
	"auction-marketplace/internal/infrastructure/mysql"
	redisinfra "auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	log := logger.New()
	log.Info("Starting Marketplace Service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}(db)

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Repositories
	itemRepo := mysql.NewMySQLItemRepository(db)
	bidRepo := mysql.NewMySQLBidRepository(db)
	operationRepo := mysql.NewMySQLOperationRepository(db)
	transferJobRepo := mysql.NewMySQLTransferJobRepository(db)

	// Redis based components
	itemCache := redisinfra.NewRedisItemCache(rdb, cfg.Cache.ItemTTL)
	priceCache := redisinfra.NewRedisPriceCache(rdb)
	similarityCache := redisinfra.NewRedisSimilarityCache(rdb)
	transferListCache := redisinfra.NewRedisTransferListCache(rdb)
	eventPublisher := redisinfra.NewEventPublisher(rdb)

	// External ledger
	ledgerClient := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.Timeout)

	// Leader election for the scheduler
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Services
	similarityService := services.NewSimilarityService(similarityCache, itemCache, log)
	bidService := services.NewBidService(itemRepo, bidRepo, priceCache, eventPublisher, log)
	itemService := services.NewItemService(itemRepo, itemCache, priceCache, similarityService, log)
	operationService := services.NewOperationService(operationRepo)
	lifecycleService := services.NewLifecycleService(
		itemRepo, operationRepo, transferJobRepo,
		itemCache, transferListCache, similarityService,
		ledgerClient, eventPublisher, log,
	)
	scheduler := services.NewTransferScheduler(
		transferJobRepo, itemRepo, bidRepo,
		itemCache, transferListCache, eventPublisher,
		leaderElection, cfg.Instance.ID, cfg.Scheduler.Interval, log,
	)

	// Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
	}))

	// Handlers
	bidHandler := handlers.NewBidHandler(bidService, log)
	itemHandler := handlers.NewItemHandler(itemService, lifecycleService, log)
	operationHandler := handlers.NewOperationHandler(operationService, log)

	api := e.Group("/api/v1")
	api.POST("/place", bidHandler.PlaceBid)
	api.GET("/item", itemHandler.GetItem)
	api.POST("/item", itemHandler.CreateItem)
	api.DELETE("/item/:item_id", itemHandler.DeleteItem)
	api.POST("/transfer", itemHandler.TransferItem)
	api.GET("/status/operation/:operation_id", operationHandler.GetStatus)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "marketplace",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Background scheduler + leadership loop
	go func() {
		if err := scheduler.Start(context.Background()); err != nil {
			log.Error("Failed to start scheduler", "error", err)
		}
	}()

	go func() {
		for {
			became, err := leaderElection.BecomeLeader(context.Background(), cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("Became scheduler leader", "instance_id", cfg.Instance.ID)
			}
			time.Sleep(10 * time.Second)
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting marketplace server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down marketplace service...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := scheduler.Stop(); err != nil {
		log.Error("Failed to stop scheduler", "error", err)
	}
	if err := leaderElection.ReleaseLeadership(ctx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Marketplace service stopped")
}
