package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/cache"
	"github.com/Lorendor/webshop-api/internal/config"
	h "github.com/Lorendor/webshop-api/internal/http"
	"github.com/Lorendor/webshop-api/internal/repository"
	"github.com/Lorendor/webshop-api/internal/service"
	"github.com/Lorendor/webshop-api/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	db, err := repository.Connect(&repository.Credentials{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer db.Close()

	if err := repository.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("migrations completed")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}
	log.Info("connected to redis")

	redisCache := cache.NewRedisCache(redisClient)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	files := storage.NewLocalFileStore(cfg.StorageDir)

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	catalogService := service.NewCatalogService(products, redisCache, log.WithField("component", "catalog"))
	cartService := service.NewCartService(redisCache, products, log.WithField("component", "cart"))
	checkoutService := service.NewCheckoutService(cartService, products, orders, redisCache, log.WithField("component", "checkout"))
	downloadService := service.NewDownloadService(orders, products, files, tempDir, log.WithField("component", "download"))

	router := h.NewRouter(
		h.NewProductHandler(catalogService),
		h.NewCartHandler(cartService),
		h.NewOrdersHandler(checkoutService, downloadService),
		cfg.JWTSecret,
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  cfg.RequestTimeout * 2,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("webshop API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
