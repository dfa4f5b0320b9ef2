package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dvaldez/storefront-backend/api/routes"
	"github.com/dvaldez/storefront-backend/internal/basket"
	"github.com/dvaldez/storefront-backend/internal/catalog"
	"github.com/dvaldez/storefront-backend/internal/checkout"
	"github.com/dvaldez/storefront-backend/internal/orders"
	"github.com/dvaldez/storefront-backend/internal/payments"
	"github.com/dvaldez/storefront-backend/internal/session"
	"github.com/dvaldez/storefront-backend/pkg/config"
	"github.com/dvaldez/storefront-backend/pkg/db"
	"github.com/dvaldez/storefront-backend/pkg/logger"
	"github.com/dvaldez/storefront-backend/pkg/metrics"
	"github.com/dvaldez/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := catalog.AutoMigrate(dbClient.DB()); err != nil {
			logg.Error(ctx, "failed to migrate catalog schema", err)
			os.Exit(1)
		}
	}
	if cfg.FeatureFlags.SeedCatalog && !cfg.App.IsProd() {
		if err := catalog.SeedIfEmpty(ctx, dbClient.DB(), logg); err != nil {
			logg.Error(ctx, "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	basketStore, err := basket.NewRedisStore(redisClient, cfg.Basket.TTL)
	if err != nil {
		logg.Error(ctx, "failed to create basket store", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(basketStore, session.RedisIdentityFactory(redisClient, cfg.Basket.SessionTTL), logg)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	gateway, err := payments.NewStripeGateway(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Error(ctx, "failed to create payment gateway", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(gateway, logg)
	if err != nil {
		logg.Error(ctx, "failed to create payments service", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(cfg.Orders.BaseURL, orders.WithTimeout(cfg.Orders.Timeout))
	if err != nil {
		logg.Error(ctx, "failed to create orders client", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	orchestrator, err := checkout.NewOrchestrator(ordersClient, gateway, checkoutMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout orchestrator", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Sessions:     sessions,
			Catalog:      catalogService,
			Payments:     paymentsService,
			Orchestrator: orchestrator,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
