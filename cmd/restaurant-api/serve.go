package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/awesome-restaurant/restaurant-api/internal/api"
	"github.com/awesome-restaurant/restaurant-api/internal/api/handler"
	"github.com/awesome-restaurant/restaurant-api/internal/core/service"
	"github.com/awesome-restaurant/restaurant-api/internal/infrastructure/db/mongo"
	"github.com/awesome-restaurant/restaurant-api/internal/infrastructure/db/redis"
	"github.com/awesome-restaurant/restaurant-api/internal/infrastructure/payment/stripe"
	"github.com/awesome-restaurant/restaurant-api/internal/infrastructure/queue"
	"github.com/awesome-restaurant/restaurant-api/internal/pkg/config"
	"github.com/awesome-restaurant/restaurant-api/pkg/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "restaurant-api",
		Version: Version,
		Env:     cfg.Env,
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		OpTimeout: cfg.Redis.OpTimeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	unit, err := cfg.Payment.CurrencyUnit()
	if err != nil {
		return err
	}
	if cfg.Payment.StripeSecretKey == "" {
		log.Warn().Msg("STRIPE_SECRET_KEY is empty, payment intents will fail")
	}

	carts := service.NewCartService(mongo.NewCartRepository(db), logger.Component("cart"))
	users := service.NewUserService(mongo.NewUserRepository(db), logger.Component("user"))

	dispatcher := queue.NewDispatcher(cfg.Cleanup.Workers, carts, logger.Component("cart-cleanup"))
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	checkout := service.NewCheckoutService(
		mongo.NewPaymentRepository(client, db, cfg.Mongo.Transactions),
		stripe.NewGateway(cfg.Payment.StripeSecretKey),
		redis.NewSettlementLock(rdb, cfg.Redis.LockTTL),
		dispatcher,
		service.CheckoutOptions{Currency: unit, Timeout: cfg.Payment.Timeout},
		logger.Component("checkout"),
	)
	if !cfg.Mongo.Transactions {
		if _, err := checkout.ReplayCleanups(ctx); err != nil {
			log.Error().Err(err).Msg("cart cleanup replay failed")
		}
	}

	e := api.NewRouter(api.Dependencies{
		Log:      log,
		Tokens:   service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Users:    users,
		Menu:     service.NewMenuService(mongo.NewMenuRepository(db), logger.Component("menu")),
		Reviews:  service.NewReviewService(mongo.NewReviewRepository(db)),
		Carts:    carts,
		Checkout: checkout,
		Reports:  service.NewReportingService(mongo.NewStatsRepository(db)),
		Health: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   redis.Check(rdb),
		},
		Registerer: prometheus.DefaultRegisterer,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("transactions", cfg.Mongo.Transactions).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
		log.Error().Err(runErr).Msg("http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	} else {
		log.Info().Msg("http server stopped")
	}
	stopWorkers()
	dispatcher.Wait()
	return runErr
}
