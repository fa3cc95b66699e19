package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string          `yaml:"env" envconfig:"APP_ENV"`
	HTTP     HTTPConfig      `yaml:"http"`
	Commerce CommerceConfig  `yaml:"commerce"`
	Catalog  CatalogConfig   `yaml:"catalog"`
	Email    EmailConfig     `yaml:"email"`
	Site     SiteConfig      `yaml:"site"`
	Staff    StaffConfig     `yaml:"staff"`
	Booking  BookingConfig   `yaml:"booking"`
	Database DatabaseConfig  `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Kafka    KafkaConfig     `yaml:"kafka"`
	Limits   RateLimitConfig `yaml:"rate_limit"`
	Worker   WorkerConfig    `yaml:"worker"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" envconfig:"HTTP_ADDRESS"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is the client.
	TrustedProxies []string `yaml:"trusted_proxies" envconfig:"TRUSTED_PROXIES"`
}

// CommerceConfig describes the external commerce API every proxy route forwards to.
type CommerceConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"API_URL"`
	Token    string        `yaml:"token" envconfig:"API_TOKEN"`
	Secret   string        `yaml:"secret" envconfig:"FOODDAY_SECRET_KEY"`
	ClientID string        `yaml:"client_id" envconfig:"CLIENT_HEADER"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CatalogConfig is the separate API serving FAQs and sponsor contacts.
type CatalogConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"COMMERCEUP_API_URL"`
	Token   string `yaml:"token" envconfig:"COMMERCEUP_TOKEN"`
}

type EmailConfig struct {
	Provider           string     `yaml:"provider" envconfig:"EMAIL_PROVIDER"`
	BrevoURL           string     `yaml:"brevo_url"`
	BrevoAPIKey        string     `yaml:"brevo_api_key" envconfig:"BREVO_API_KEY"`
	SenderEmail        string     `yaml:"sender_email" envconfig:"SENDER_EMAIL"`
	SenderName         string     `yaml:"sender_name" envconfig:"SENDER_NAME"`
	ContactEmail       string     `yaml:"contact_email" envconfig:"CONTACT_EMAIL"`
	WebhookURL         string     `yaml:"webhook_url" envconfig:"DISCORD_WEBHOOK_URL"`
	SponsorsWebhookURL string     `yaml:"sponsors_webhook_url" envconfig:"FOODIE_DISCORD_SPONSORS_WEBHOOK_URL"`
	QRRendererURL      string     `yaml:"qr_renderer_url"`
	SMTP               SMTPConfig `yaml:"smtp"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
}

type SiteConfig struct {
	PublicURL string `yaml:"public_url" envconfig:"NEXT_PUBLIC_SITE_URL"`
}

type StaffConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type BookingConfig struct {
	BasePrice       int64         `yaml:"base_price"`
	LunchPrice      int64         `yaml:"lunch_price"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	ResetDelay      time.Duration `yaml:"reset_delay"`
	ConfirmationTTL time.Duration `yaml:"confirmation_ttl"`
	FAQCacheTTL     time.Duration `yaml:"faq_cache_ttl"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"DATABASE_HOST"`
	Port     int    `yaml:"port" envconfig:"DATABASE_PORT"`
	User     string `yaml:"user" envconfig:"DATABASE_USER"`
	Password string `yaml:"password" envconfig:"DATABASE_PASSWORD"`
	Name     string `yaml:"name" envconfig:"DATABASE_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"DATABASE_SSLMODE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers        []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	PurchasesTopic string   `yaml:"purchases_topic"`
	GroupID        string   `yaml:"group_id"`
}

type RateLimitConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Prefix         string        `yaml:"prefix"`
	Capacity       int           `yaml:"capacity"`
	RefillTokens   int           `yaml:"refill_tokens"`
	RefillInterval time.Duration `yaml:"refill_interval"`
	TTL            time.Duration `yaml:"ttl"`
}

type WorkerConfig struct {
	FAQRefreshInterval time.Duration `yaml:"faq_refresh_interval"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig reads the YAML file at path (a missing file is allowed), overlays
// secrets from the environment and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 5 * time.Second
	}
	if c.Commerce.ClientID == "" {
		c.Commerce.ClientID = "foodday"
	}
	if c.Commerce.Timeout == 0 {
		c.Commerce.Timeout = 15 * time.Second
	}
	if c.Catalog.Token == "" {
		c.Catalog.Token = c.Commerce.Token
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "brevo"
	}
	if c.Email.BrevoURL == "" {
		c.Email.BrevoURL = "https://api.brevo.com/v3/smtp/email"
	}
	if c.Email.SenderEmail == "" {
		c.Email.SenderEmail = "info@fooddeliveryday.com.ar"
	}
	if c.Email.SenderName == "" {
		c.Email.SenderName = "Food Delivery Day"
	}
	if c.Email.QRRendererURL == "" {
		c.Email.QRRendererURL = "https://quickchart.io/qr"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Site.PublicURL == "" {
		c.Site.PublicURL = "http://localhost:3000"
	}
	if c.Staff.SessionTTL == 0 {
		c.Staff.SessionTTL = 3 * time.Hour
	}
	if c.Booking.BasePrice == 0 {
		c.Booking.BasePrice = 12000
	}
	if c.Booking.LunchPrice == 0 {
		c.Booking.LunchPrice = 8000
	}
	if c.Booking.PollInterval == 0 {
		c.Booking.PollInterval = 3 * time.Second
	}
	if c.Booking.ResetDelay == 0 {
		c.Booking.ResetDelay = 300 * time.Millisecond
	}
	if c.Booking.ConfirmationTTL == 0 {
		c.Booking.ConfirmationTTL = 24 * time.Hour
	}
	if c.Booking.FAQCacheTTL == 0 {
		c.Booking.FAQCacheTTL = time.Minute
	}
	if c.Kafka.PurchasesTopic == "" {
		c.Kafka.PurchasesTopic = "purchases"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "foodday-worker"
	}
	if c.Limits.Prefix == "" {
		c.Limits.Prefix = "rl"
	}
	if c.Limits.Capacity == 0 {
		c.Limits.Capacity = 5
	}
	if c.Limits.RefillTokens == 0 {
		c.Limits.RefillTokens = 1
	}
	if c.Limits.RefillInterval == 0 {
		c.Limits.RefillInterval = time.Minute
	}
	if c.Limits.TTL == 0 {
		c.Limits.TTL = 10 * time.Minute
	}
	if c.Worker.FAQRefreshInterval == 0 {
		c.Worker.FAQRefreshInterval = time.Minute
	}
}
