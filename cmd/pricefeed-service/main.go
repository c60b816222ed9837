package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/domain"
	redisinfra "auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/infrastructure/websocket"
	"auction-marketplace/pkg/logger"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// The feed service bridges the per-item price channels to websocket
// clients. A redis subscription exists only while an item has at least one
// watcher; the last client leaving tears it down.
func main() {
	log := logger.New()
	log.Info("Starting Price Feed Service")

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

	manager := websocket.NewConnectionManager(log)
	subscriber := redisinfra.NewPriceSubscriber(rdb, log)

	var subsMu sync.Mutex
	subscriptions := make(map[string]func())

	onFirstConn := func(itemID string) {
		stop, err := subscriber.Subscribe(context.Background(), itemID, func(update domain.PriceUpdate) {
			payload, err := json.Marshal(update)
			if err != nil {
				log.Error("Failed to encode price update", "item_id", itemID, "error", err)
				return
			}
			manager.BroadcastToItem(itemID, payload)
		})
		if err != nil {
			log.Error("Failed to subscribe to price channel", "item_id", itemID, "error", err)
			return
		}

		subsMu.Lock()
		subscriptions[itemID] = stop
		subsMu.Unlock()
	}

	onLastConn := func(itemID string) {
		subsMu.Lock()
		stop, ok := subscriptions[itemID]
		delete(subscriptions, itemID)
		subsMu.Unlock()

		if ok {
			stop()
		}
	}

	feedHandler := websocket.NewFeedHandler(manager, onFirstConn, onLastConn, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/ws/:item_id", feedHandler.Subscribe)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": "pricefeed",
			"items":   len(manager.ActiveItems()),
		})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting price feed server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down price feed service...")

	subsMu.Lock()
	for itemID, stop := range subscriptions {
		stop()
		delete(subscriptions, itemID)
	}
	subsMu.Unlock()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Price feed service stopped")
}
