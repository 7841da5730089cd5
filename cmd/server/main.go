package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/httpapi"
	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/store"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initStoreFunc     = newStore
	initPublisherFunc = newPublisher
	startServerFunc   = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStoreFunc(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	publisher, err := initPublisherFunc(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	handler, limiter, err := newServer(ctx, cfg, st, publisher)
	if err != nil {
		return err
	}
	go limiter.RunJanitor(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("HTTP server running",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreBackend),
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

// newServer wires services over st, seeds data when configured and returns
// the full middleware chain around the router.
func newServer(ctx context.Context, cfg *config.Config, st store.Store, publisher events.Publisher) (http.Handler, *middleware.RateLimiter, error) {
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := user.NewService(user.NewRepository(st), issuer)
	productSvc := product.NewService(product.NewRepository(st))
	orderSvc := order.NewService(order.NewRepository(st), order.Options{
		StockPolicy:  order.StockPolicy(cfg.StockPolicy),
		StatusPolicy: order.StatusPolicy(cfg.StatusPolicy),
		Publisher:    publisher,
	})
	gate := auth.NewGate(issuer, userSvc)

	if cfg.SeedData {
		if _, err := userSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			return nil, nil, fmt.Errorf("seed admin: %w", err)
		}
		if _, err := productSvc.SeedCatalog(ctx); err != nil {
			return nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.NewHandler(productSvc, orderSvc, userSvc, gate, httpapi.Options{
		TokenTTL:        cfg.TokenTTL,
		SecureCookie:    cfg.AppEnv == "production",
		AttachOrderUser: cfg.AttachOrderUser,
	}))

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = middleware.AuthMiddleware(gate)(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h, limiter, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		database, err := db.NewDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewPostgres(database), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return store.NewRedis(client), nil

	default:
		return store.NewMemory(), nil
	}
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}, nil
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	return events.NewKafkaPublisher(producer, cfg.OrderEventsTopic), nil
}
