package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mechseva/internal/config"
	"mechseva/internal/handlers"
	"mechseva/internal/middleware"
	"mechseva/internal/repositories/mongodb"
	"mechseva/internal/services"
	"mechseva/pkg/cache"
	"mechseva/pkg/database"
	"mechseva/pkg/logger"
	"mechseva/pkg/payment"
	"mechseva/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
		Colors: cfg.App.Environment == "development",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache)

	customerRepo := mongodb.NewCustomerRepository(db.Database, cacheService)
	mechanicRepo := mongodb.NewMechanicRepository(db.Database, cacheService)
	requestRepo := mongodb.NewServiceRequestRepository(db.Database, cacheService)

	var refunds payment.RefundProvider
	if cfg.Payment.RazorpayKeyID != "" {
		refunds = payment.NewRazorpayProvider(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
	}

	authService := services.NewAuthService(customerRepo, mechanicRepo, cfg.Security, log)
	customerService := services.NewCustomerService(customerRepo, log)
	mechanicService := services.NewMechanicService(mechanicRepo, requestRepo, log)
	requestService := services.NewServiceRequestService(requestRepo, customerRepo, mechanicRepo, refunds, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.RateLimitMiddleware(cacheService, 300, time.Minute))

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		mongoOK := db.Ping() == nil
		if !mongoOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
			"mongo":   mongoOK,
		})
	})

	api := router.Group("/api/v1")
	routes.Setup(api, &routes.Handlers{
		Auth:           handlers.NewAuthHandler(authService),
		Customer:       handlers.NewCustomerHandler(customerService),
		Mechanic:       handlers.NewMechanicHandler(mechanicService),
		ServiceRequest: handlers.NewServiceRequestHandler(requestService),
	}, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("%s listening on :%d", cfg.App.Name, cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}
