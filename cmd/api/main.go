package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront-api/internal/cartstore"
	"storefront-api/internal/config"
	"storefront-api/internal/db"
	"storefront-api/internal/httpserver"
	"storefront-api/internal/notify"
	"storefront-api/internal/reconcile"
	"storefront-api/internal/redisx"
	customerrepo "storefront-api/internal/repository/customer"
	ordersrepo "storefront-api/internal/repository/orders"
	productrepo "storefront-api/internal/repository/product"
	tokenrepo "storefront-api/internal/repository/token"
	cartsvc "storefront-api/internal/service/cart"
	checkoutsvc "storefront-api/internal/service/checkout"
	identitysvc "storefront-api/internal/service/identity"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient, err := redisx.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer redisClient.Close()

	var notifier checkoutsvc.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafka(cfg.KafkaBrokers, cfg.NotifyTopic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	} else {
		logger.Printf("KAFKA_BROKERS not set, order notifications disabled")
		notifier = notify.Noop{}
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := ordersrepo.NewPostgres(dbpool)

	cartStore := cartstore.NewRedis(redisClient, logger)
	cartService := cartsvc.New(cartStore, productRepo, logger)
	checkoutService := checkoutsvc.New(cartService, orderRepo, notifier, logger)
	identityService := identitysvc.New(customerRepo, tokenRepo)

	janitor := reconcile.NewJanitor(orderRepo, logger)
	janitor.Schedule(cfg.ReconcileTick, cfg.ReconcileCutoff)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go janitor.Run(janitorCtx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Identity:       identityService,
		Cart:           cartService,
		Checkout:       checkoutService,
		Products:       productRepo,
		Orders:         orderRepo,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
