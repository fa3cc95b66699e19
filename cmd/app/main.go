package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/foodday/api"
	"github.com/Domenick1991/foodday/config"
	"github.com/Domenick1991/foodday/internal/bootstrap"
	"github.com/Domenick1991/foodday/internal/cache"
	"github.com/Domenick1991/foodday/internal/commerce"
	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/Domenick1991/foodday/internal/email"
	"github.com/Domenick1991/foodday/internal/kafka"
	"github.com/Domenick1991/foodday/internal/qr"
	"github.com/Domenick1991/foodday/internal/service/auth"
	"github.com/Domenick1991/foodday/internal/service/content"
	"github.com/Domenick1991/foodday/internal/service/orders"
	"github.com/Domenick1991/foodday/internal/service/staff"
	"github.com/Domenick1991/foodday/internal/service/tickets"
	"github.com/gin-gonic/gin"
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
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	upstream := commerce.NewClient(commerce.Config{
		BaseURL:  cfg.Commerce.BaseURL,
		Token:    cfg.Commerce.Token,
		Secret:   cfg.Commerce.Secret,
		ClientID: cfg.Commerce.ClientID,
		Timeout:  cfg.Commerce.Timeout,
	})
	catalog := commerce.NewClient(commerce.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Token:   cfg.Catalog.Token,
		DBToken: cfg.Catalog.Token,
		Timeout: cfg.Commerce.Timeout,
	})

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FAQCacheTTL)
	defer redisCache.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Printf("redis unavailable, rate limits and FAQ cache will degrade: %v", err)
	}
	cancel()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := producer.CheckConnection(checkCtx); err != nil {
		log.Printf("kafka unavailable, purchase events will be dropped: %v", err)
	}
	cancel()

	sender := newSender(cfg)

	pricing := domain.Pricing{BasePrice: cfg.Booking.BasePrice, LunchPrice: cfg.Booking.LunchPrice}
	orderService := orders.NewOrderService(upstream, sender, pricing,
		orders.WithConfirmationLock(redisCache, cfg.Booking.ConfirmationTTL),
		orders.WithPurchaseEvents(producer, cfg.Kafka.PurchasesTopic),
	)

	router := api.NewRouter(cfg, api.Services{
		Orders:  orderService,
		Auth:    auth.NewAuthService(upstream, sender, cfg.Site.PublicURL),
		Tickets: tickets.NewTicketService(upstream, sender),
		Staff:   staff.NewStaffService(upstream),
		Content: content.NewContentService(upstream, catalog, redisCache, sender),
		Limiter: redisCache,
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newSender(cfg *config.Config) *email.Sender {
	from := email.Address{Email: cfg.Email.SenderEmail, Name: cfg.Email.SenderName}

	var transport email.Transport
	switch cfg.Email.Provider {
	case "smtp":
		transport = email.NewSMTPTransport(cfg.Email.SMTP.Host, cfg.Email.SMTP.Port, cfg.Email.SMTP.Username, cfg.Email.SMTP.Password, from)
	default:
		if cfg.Email.Provider != "brevo" {
			log.Printf("unknown email provider %q, using brevo", cfg.Email.Provider)
		}
		transport = email.NewBrevoTransport(cfg.Email.BrevoURL, cfg.Email.BrevoAPIKey, from)
	}

	webhook := cfg.Email.SponsorsWebhookURL
	if webhook == "" {
		webhook = cfg.Email.WebhookURL
	}

	opts := []email.Option{
		email.WithSiteURL(cfg.Site.PublicURL),
		email.WithQR(qr.NewGenerator(cfg.Site.PublicURL, cfg.Email.QRRendererURL)),
		email.WithLeadNotifier(email.NewWebhookNotifier(webhook)),
	}
	if cfg.Email.ContactEmail != "" {
		opts = append(opts, email.WithContactEmail(cfg.Email.ContactEmail))
	}
	return email.NewSender(transport, opts...)
}
