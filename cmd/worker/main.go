package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/foodday/config"
	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/kafka"
	"github.com/Domenick1991/foodday/internal/repository"
	"github.com/Domenick1991/foodday/internal/service/content"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	purchases := repository.NewPurchaseRepository(pool)
	if err := purchases.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FAQCacheTTL)
	defer redisCache.Close()

	catalog := commerce.NewClient(commerce.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Token:   cfg.Catalog.Token,
		DBToken: cfg.Catalog.Token,
		Timeout: cfg.Commerce.Timeout,
	})
	contentService := content.NewContentService(nil, catalog, redisCache, nil)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PurchasesTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.ConsumePurchases(ctx, func(ctx context.Context, event domain.PurchaseEvent) error {
			inserted, err := purchases.Record(ctx, event)
			if err != nil {
				return err
			}
			if !inserted {
				log.Printf("purchase for order %d already recorded", event.OrderID)
			}
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	refreshTicker := time.NewTicker(cfg.Worker.FAQRefreshInterval)
	defer refreshTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refreshTicker.C:
			if !catalog.Configured() {
				continue
			}
			n, err := contentService.RefreshFAQs(ctx)
			if err != nil {
				log.Printf("refresh faqs error: %v", err)
				continue
			}
			log.Printf("refreshed %d faqs", n)
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
