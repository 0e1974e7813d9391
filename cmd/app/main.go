package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seriespay/internal/config"
	pg "seriespay/internal/infra/db/postgres"
	"seriespay/internal/infra/logging"
	"seriespay/internal/infra/metrics"
	"seriespay/internal/infra/payment"
	red "seriespay/internal/infra/redis"
	"seriespay/internal/infra/sched"
	"seriespay/internal/infra/web"
	"seriespay/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	purchaseRepo := pg.NewPostgresPurchaseRepo(pool)
	payoutRepo := pg.NewPostgresPayoutRepo(pool)
	seasonRepo := pg.NewPostgresSeasonRepo(pool)
	seriesRepo := pg.NewPostgresSeriesRepo(pool)
	creatorRepo := pg.NewPostgresCreatorRepo(pool)

	// ---- Stripe ----
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey)

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(
		seasonRepo, seriesRepo, purchaseRepo, gateway,
		cfg.Server.BaseURL, cfg.Stripe.Currency, cfg.Stripe.BundleDiscountPercent, logger,
	)
	reconcileUC := usecase.NewReconcileUseCase(purchaseRepo, seasonRepo, gateway, logger)
	payoutUC := usecase.NewPayoutUseCase(purchaseRepo, payoutRepo, gateway, locker, cfg.Stripe.Currency, logger)
	connectUC := usecase.NewConnectUseCase(creatorRepo, gateway, payoutUC, cfg.Server.BaseURL, logger)
	statsUC := usecase.NewStatsUseCase(purchaseRepo, payoutRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.AdminJWTSecret, !cfg.Runtime.Dev, 30*time.Minute)
	srv := web.NewServer(checkoutUC, reconcileUC, connectUC, statsUC, cfg.Stripe.WebhookSecret, auth, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Payout sweeper ----
	sweeper := sched.NewPayoutSweeper(payoutUC, creatorRepo, cfg.Sweeper.Interval, logger)
	go sweeper.Start(ctx)

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
