package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/text/currency"
)

type Config struct {
	Port            string        `env:"PORT,             default=5000"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=1h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Payment PaymentConfig
	Cleanup CleanupConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=cafe-Resto-DB"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=true"`
}

type RedisConfig struct {
	Addr      string        `env:"REDIS_ADDR,          default=localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB,            default=0"`
	OpTimeout time.Duration `env:"REDIS_OP_TIMEOUT,    default=500ms"`
	LockTTL   time.Duration `env:"SETTLEMENT_LOCK_TTL, default=30s"`
}

type PaymentConfig struct {
	StripeSecretKey string        `env:"STRIPE_SECRET_KEY"`
	Currency        string        `env:"PAYMENT_CURRENCY, default=USD"`
	Timeout         time.Duration `env:"PAYMENT_TIMEOUT,  default=10s"`
}

type CleanupConfig struct {
	Workers int `env:"CLEANUP_WORKERS, default=4"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CurrencyUnit returns the configured charge currency.
func (p PaymentConfig) CurrencyUnit() (currency.Unit, error) {
	return currency.ParseISO(p.Currency)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if _, err := c.Payment.CurrencyUnit(); err != nil {
		errs = append(errs, fmt.Errorf("PAYMENT_CURRENCY: %w", err))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}
