package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Pricing  PricingConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Promo    PromoConfig
	S3       S3Config
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds

	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
	ConnectRetries    int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds bearer token configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// PricingConfig holds the shipping and tax rules.
type PricingConfig struct {
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
}

// RedisConfig holds Redis configuration for the catalogue cache and realtime bridge.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Channel  string
	CacheTTL time.Duration
}

// KafkaConfig holds the order event stream configuration.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// PromoConfig holds promo code configuration.
type PromoConfig struct {
	Enabled      bool
	Files        []string
	MinMatches   int
	DiscountRate float64
}

// S3Config holds AWS S3 configuration for promo code files.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "promo/")
}

// Load loads configuration from environment variables, after reading an optional .env file.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			MaxConnections:  v.GetInt("DB_MAX_CONNECTIONS"),
			MinConnections:  v.GetInt("DB_MIN_CONNECTIONS"),
			MaxConnLifetime: v.GetInt("DB_MAX_CONN_LIFETIME"),

			MaxConnIdleTime:   v.GetDuration("DB_MAX_CONN_IDLE_TIME"),
			HealthCheckPeriod: v.GetDuration("DB_HEALTH_CHECK_PERIOD"),
			ConnectTimeout:    v.GetDuration("DB_CONNECT_TIMEOUT"),
			ConnectRetries:    v.GetInt("DB_CONNECT_RETRIES"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: v.GetFloat64("FREE_SHIPPING_THRESHOLD"),
			ShippingFee:           v.GetFloat64("SHIPPING_FEE"),
			TaxRate:               v.GetFloat64("TAX_RATE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
			CacheTTL: v.GetDuration("CACHE_TTL"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Promo: PromoConfig{
			Enabled:      v.GetBool("PROMO_ENABLED"),
			Files:        splitCSV(v.GetString("PROMO_FILES")),
			MinMatches:   v.GetInt("PROMO_MIN_MATCHES"),
			DiscountRate: v.GetFloat64("PROMO_DISCOUNT_RATE"),
		},
		S3: S3Config{
			Enabled: v.GetBool("S3_ENABLED"),
			Bucket:  v.GetString("S3_BUCKET"),
			Region:  v.GetString("S3_REGION"),
			Prefix:  v.GetString("S3_PREFIX"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "dealerkart")
	v.SetDefault("DB_MAX_CONNECTIONS", 25)
	v.SetDefault("DB_MIN_CONNECTIONS", 5)
	v.SetDefault("DB_MAX_CONN_LIFETIME", 300)
	v.SetDefault("DB_MAX_CONN_IDLE_TIME", "30m")
	v.SetDefault("DB_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", 599)
	v.SetDefault("SHIPPING_FEE", 50)
	v.SetDefault("TAX_RATE", 0.05)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "dealerkart:events")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "dealerkart.orders")
	v.SetDefault("PROMO_ENABLED", false)
	v.SetDefault("PROMO_FILES", "data/promo/codes1.gz,data/promo/codes2.gz,data/promo/codes3.gz")
	v.SetDefault("PROMO_MIN_MATCHES", 2)
	v.SetDefault("PROMO_DISCOUNT_RATE", 0.1)
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "promo/")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Database.ConnectRetries < 0 {
		return fmt.Errorf("database connect retries cannot be negative")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Pricing.FreeShippingThreshold < 0 || c.Pricing.ShippingFee < 0 {
		return fmt.Errorf("shipping threshold and fee must not be negative")
	}

	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("invalid tax rate: %v (must be in [0, 1))", c.Pricing.TaxRate)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("Redis address is required when Redis is enabled")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("Kafka brokers are required when Kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("Kafka topic is required when Kafka is enabled")
		}
	}

	if c.Promo.Enabled {
		if len(c.Promo.Files) == 0 {
			return fmt.Errorf("promo files are required when promo codes are enabled")
		}
		if c.Promo.MinMatches < 1 || c.Promo.MinMatches > len(c.Promo.Files) {
			return fmt.Errorf("promo min matches must be between 1 and the number of promo files")
		}
		if c.Promo.DiscountRate <= 0 || c.Promo.DiscountRate >= 1 {
			return fmt.Errorf("invalid promo discount rate: %v (must be in (0, 1))", c.Promo.DiscountRate)
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// splitCSV splits a comma-separated list, dropping blanks.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
