package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/evi1sylar/skillbox30hw/internal/delivery/http"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/config"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/database"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/redis"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
	"github.com/evi1sylar/skillbox30hw/internal/repository/cached"
	"github.com/evi1sylar/skillbox30hw/internal/repository/postgres"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/client"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/parking"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/session"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("Starting parking API server", map[string]interface{}{
		"rate_per_minute": cfg.Parking.RatePerMinute,
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	clientRepo := postgres.NewClientRepository(db)
	parkingRepo := postgres.NewParkingRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	// Redis кэширует только списки парковок для дашборда; если Redis
	// недоступен, работаем напрямую с БД
	var dashboardParkingRepo repository.ParkingRepository = parkingRepo
	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis is not available, parking lists will not be cached", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer cache.Close()
		dashboardParkingRepo = cached.NewParkingRepository(parkingRepo, cache, cfg.Parking.ListCacheTTL)
		log.Info("Redis cache enabled for parking lists", map[string]interface{}{
			"ttl": cfg.Parking.ListCacheTTL.String(),
		})
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	clientService := client.NewService(clientRepo, log)
	parkingService := parking.NewService(dashboardParkingRepo, log)

	// Менеджер сессий читает парковки напрямую из БД: решения о въезде
	// нельзя принимать по закэшированному счетчику мест
	sessionService := session.NewService(clientRepo, parkingRepo, sessionRepo, cfg.Parking.RatePerMinute, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и роутера
	// =========================================================================

	clientHandler := deliveryHTTP.NewClientHandler(clientService, log)
	parkingHandler := deliveryHTTP.NewParkingHandler(parkingService, log)
	sessionHandler := deliveryHTTP.NewSessionHandler(sessionService, log)

	router := deliveryHTTP.NewRouter(clientHandler, parkingHandler, sessionHandler, log)
	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
