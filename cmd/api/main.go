package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Cesium55/food-mobile-sub000/api"
	"github.com/Cesium55/food-mobile-sub000/api/routes"
	"github.com/Cesium55/food-mobile-sub000/internal/cart"
	"github.com/Cesium55/food-mobile-sub000/internal/checkout"
	"github.com/Cesium55/food-mobile-sub000/internal/offers"
	"github.com/Cesium55/food-mobile-sub000/internal/strategies"
	"github.com/Cesium55/food-mobile-sub000/pkg/config"
	"github.com/Cesium55/food-mobile-sub000/pkg/db"
	"github.com/Cesium55/food-mobile-sub000/pkg/env"
	"github.com/Cesium55/food-mobile-sub000/pkg/instance"
	"github.com/Cesium55/food-mobile-sub000/pkg/logger"
	"github.com/Cesium55/food-mobile-sub000/pkg/metrics"
	"github.com/Cesium55/food-mobile-sub000/pkg/migrate"
	"github.com/Cesium55/food-mobile-sub000/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	services, err := buildServices(cfg, logg, dbClient, redisClient, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	addr := ":" + env.First(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg,
		routes.Deps{
			DB:      dbClient,
			Redis:   redisClient,
			Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		},
		services,
	)
	server := api.NewServer(cfg, addr, handler)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logg.Info(ctx, "shutting down api server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, pm *metrics.PricingMetrics) (routes.Services, error) {
	strategyRepo := strategies.NewRepository(dbClient.DB())
	strategyCache := strategies.NewCache(redisClient, cfg.Pricing.StrategyCacheTTL)

	resolver, err := strategies.NewResolver(strategies.ResolverParams{
		Logger:  logg,
		Repo:    strategyRepo,
		Cache:   strategyCache,
		Metrics: pm,
	})
	if err != nil {
		return routes.Services{}, err
	}

	strategySvc, err := strategies.NewService(strategies.ServiceParams{
		Logger: logg,
		Tx:     dbClient,
		Repo:   strategyRepo,
		Cache:  strategyCache,
	})
	if err != nil {
		return routes.Services{}, err
	}

	offerSvc, err := offers.NewService(offers.ServiceParams{
		Logger:     logg,
		Repo:       offers.NewRepository(dbClient.DB()),
		Resolver:   resolver,
		Strategies: strategyRepo,
		Metrics:    pm,
	})
	if err != nil {
		return routes.Services{}, err
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Logger:              logg,
		Offers:              offerSvc,
		ExpiryWarningWindow: cfg.Pricing.ExpiryWarningWindow,
	})
	if err != nil {
		return routes.Services{}, err
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Logger:  logg,
		Offers:  offerSvc,
		Metrics: pm,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Offers:     offerSvc,
		Strategies: strategySvc,
		Cart:       cartSvc,
		Checkout:   checkoutSvc,
	}, nil
}
