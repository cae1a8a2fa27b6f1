package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverBadger   = "badger"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT,default=8080"`
	LogLevel   string `env:"LOG_LEVEL,default=INFO"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBUser      string `env:"DB_USER,default=pulse"`
	DBPassword  string `env:"DB_PASSWORD,default=pulse_dev_password"`
	DBName      string `env:"DB_NAME,default=pulse"`
	DBMaxConns  int    `env:"DB_MAX_CONNS,default=20"`

	BadgerPath     string `env:"BADGER_PATH,default=data/badger"`
	BadgerInMemory bool   `env:"BADGER_IN_MEMORY,default=false"`

	JWTSecret string `env:"JWT_SECRET,default=dev-secret-change-me"`

	// WrapConcurrency bounds the per-member key wraps run in parallel for
	// one channel.
	WrapConcurrency    int           `env:"WRAP_CONCURRENCY,default=4"`
	SubscriptionBuffer int           `env:"SUBSCRIPTION_BUFFER,default=64"`
	AuthzCacheTTL      time.Duration `env:"AUTHZ_CACHE_TTL,default=0s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, cfg.Validate()
}

// Parse builds a Config from an explicit set of variables.
func Parse(vars env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(vars, &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverBadger:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.WrapConcurrency < 1 {
		return errors.New("WRAP_CONCURRENCY must be at least 1")
	}
	if c.SubscriptionBuffer < 1 {
		return errors.New("SUBSCRIPTION_BUFFER must be at least 1")
	}
	if c.AuthzCacheTTL < 0 {
		return errors.New("AUTHZ_CACHE_TTL must not be negative")
	}
	return nil
}

// DSN renders the Postgres connection URL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
