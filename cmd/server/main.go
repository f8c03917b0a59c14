package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/checkout"
	"klickjet-storefront/internal/config"
	"klickjet-storefront/internal/handler"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/middleware"
	"klickjet-storefront/internal/payment"
	"klickjet-storefront/internal/storage"

	"go.uber.org/zap"
)

const (
	identityCacheSize = 10_000
	cartSnapshotSize  = 10_000
	cartSnapshotTTL   = 10 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

var (
	initStoreFunc = func(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
		client, err := storage.NewRedisClient(ctx, storage.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	startServerFunc = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initStoreFunc(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer closeStore()

	limiter := middleware.NewRateLimiter()
	go limiter.Cleanup(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, store, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.BackendURL),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires every component onto store and returns the root handler.
func newServer(cfg *config.Config, store storage.Store, limiter *middleware.RateLimiter) http.Handler {
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	resolver := auth.NewResolver(handler.IdentityFetcher(client.Me), identityCacheSize, cfg.IdentityCacheTTL)

	cartSvc := cart.NewService(
		cart.NewRepository(store, cfg.LocalCartTTL),
		client,
		cartSnapshotSize,
		cartSnapshotTTL,
	)

	flow := checkout.NewFlow(
		checkout.NewRelay(store, cfg.SessionTTL),
		cartSvc,
		client,
		payment.NewGateway(client),
		cfg.PaymentPublishableKey,
	)

	h := handler.New(cartSvc, flow, client, resolver, handler.Options{
		Public: handler.PublicConfig{
			PaymentPublishableKey: cfg.PaymentPublishableKey,
			ImageCloudName:        cfg.ImageCloudName,
			ImageUploadPreset:     cfg.ImageUploadPreset,
		},
		CookieSecure: cfg.CookieSecure || cfg.IsProduction(),
		Timeout:      cfg.BackendTimeout,
	})

	return handler.NewRouter(h, handler.RouterConfig{
		CORSOrigin: cfg.CORSOrigin,
		Limiter:    limiter,
	})
}
