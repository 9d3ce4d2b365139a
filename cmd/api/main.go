package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealer-kart/internal/auth"
	"dealer-kart/internal/cache"
	"dealer-kart/internal/config"
	"dealer-kart/internal/database"
	"dealer-kart/internal/handler"
	"dealer-kart/internal/pricing"
	"dealer-kart/internal/promo"
	"dealer-kart/internal/realtime"
	"dealer-kart/internal/repository"
	"dealer-kart/internal/router"
	"dealer-kart/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const eventQueueSize = 1024

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting dealer-kart API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(pool, logger)
	dealerRepo := repository.NewDealerRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	billRepo := repository.NewBillRepository(pool, logger)
	contactRepo := repository.NewContactRepository(pool, logger)

	validator, err := newPromoValidator(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize promo validator: %w", err)
	}
	defer validator.Close()

	g, gctx := errgroup.WithContext(ctx)

	// Realtime fan-out: local hub (or the Redis bridge in front of it) plus the Kafka stream.
	hub := realtime.NewHub(eventQueueSize, logger)
	g.Go(func() error { return hub.Run(gctx) })

	var (
		productCache = cache.NewNop()
		fanout       realtime.Fanout
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}

		productCache = cache.NewRedisCache(client, cfg.Redis.CacheTTL, logger)
		bridge := realtime.NewRedisBridge(client, cfg.Redis.Channel, hub, eventQueueSize, logger)
		g.Go(func() error { return bridge.Run(gctx) })
		fanout = append(fanout, bridge)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache and realtime bridge enabled")
	} else {
		fanout = append(fanout, hub)
	}

	if cfg.Kafka.Enabled {
		writer := realtime.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		kafkaPublisher := realtime.NewKafkaPublisher(writer, eventQueueSize, logger)
		g.Go(func() error { return kafkaPublisher.Run(gctx) })
		fanout = append(fanout, kafkaPublisher)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka order stream enabled")
	}

	rules := pricing.Rules{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		ShippingFee:           cfg.Pricing.ShippingFee,
		TaxRate:               cfg.Pricing.TaxRate,
	}
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	accountService := service.NewAccountService(customerRepo, dealerRepo, tokens, logger)
	productService := service.NewProductService(productRepo, productCache, fanout, logger)
	cartService := service.NewCartService(cartRepo, orderRepo, productRepo, rules, fanout, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, productRepo, validator, rules, fanout, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	billService := service.NewBillService(billRepo, logger)
	dealerOrderService := service.NewDealerOrderService(orderRepo, productRepo, billService, productCache, fanout, logger)
	contactService := service.NewContactService(contactRepo, logger)

	mux := router.New(router.Handlers{
		Account:     handler.NewAccountHandler(accountService, logger),
		Product:     handler.NewProductHandler(productService, logger),
		Cart:        handler.NewCartHandler(cartService, logger),
		Order:       handler.NewOrderHandler(checkoutService, orderService, logger),
		DealerOrder: handler.NewDealerOrderHandler(dealerOrderService, logger),
		Bill:        handler.NewBillHandler(billService, logger),
		Contact:     handler.NewContactHandler(contactService, logger),
		Realtime:    hub,
	}, tokens, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info().Msg("server shutdown completed")
	return nil
}

// newPromoValidator loads promo code lists from S3 with a local fallback, or from the local file
// system only. A disabled validator rejects every code.
func newPromoValidator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (promo.Validator, error) {
	if !cfg.Promo.Enabled {
		logger.Info().Msg("promo codes disabled")
		return promo.NewDisabled(), nil
	}

	fileLoader := promo.NewFileLoader(logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := promo.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = promo.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
		}
	} else {
		logger.Info().Msg("using local file system for promo files (S3 disabled)")
	}

	return promo.NewValidator(ctx, promo.Config{
		Files:        cfg.Promo.Files,
		MinMatches:   cfg.Promo.MinMatches,
		DiscountRate: cfg.Promo.DiscountRate,
	}, loader, logger)
}
