package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all service configuration, read from the environment.
type Config struct {
	Addr           string   `env:"PAINEL_ADDR" envDefault:":8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Database     DatabaseConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Session      SessionConfig
	Lookup       LookupConfig
	Listing      ListingConfig
	Registration RegistrationConfig
	Tracing      TracingConfig
	Bootstrap    BootstrapConfig
}

// DatabaseConfig selects the Postgres stores. Empty URL keeps everything in memory.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrateOnStart  bool          `env:"DATABASE_MIGRATE_ON_START" envDefault:"true"`
}

// RedisConfig enables Redis-backed sessions, lookup cache and the tenant feed.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig enables the Kafka audit sink.
type KafkaConfig struct {
	Brokers    string `env:"KAFKA_BROKERS"`
	AuditTopic string `env:"AUDIT_TOPIC" envDefault:"painel.audit"`
}

type SessionConfig struct {
	SigningKey string        `env:"SESSION_SIGNING_KEY"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
}

// LookupConfig tunes the company-name registry client.
type LookupConfig struct {
	BaseURL          string        `env:"CNPJ_API_BASE_URL" envDefault:"https://publica.cnpj.ws/cnpj"`
	Timeout          time.Duration `env:"CNPJ_API_TIMEOUT" envDefault:"10s"`
	CacheTTL         time.Duration `env:"CNPJ_CACHE_TTL" envDefault:"24h"`
	RatePerSecond    float64       `env:"CNPJ_RATE_PER_SECOND" envDefault:"3"`
	BreakerThreshold int           `env:"CNPJ_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"CNPJ_BREAKER_COOLDOWN" envDefault:"30s"`
}

type ListingConfig struct {
	LookupConcurrency int `env:"LISTING_LOOKUP_CONCURRENCY" envDefault:"4"`
}

type RegistrationConfig struct {
	StrictCNPJ bool `env:"REGISTRATION_STRICT_CNPJ" envDefault:"false"`
}

type TracingConfig struct {
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"painel"`
}

// BootstrapConfig creates an operator credential at startup when both fields are set.
type BootstrapConfig struct {
	OperatorEmail    string `env:"BOOTSTRAP_OPERATOR_EMAIL"`
	OperatorPassword string `env:"BOOTSTRAP_OPERATOR_PASSWORD"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// .env is optional and only expected in local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Environment == EnvProduction && c.Session.SigningKey == "" {
		errs = append(errs, errors.New("SESSION_SIGNING_KEY is required in production"))
	}
	if c.Session.SigningKey != "" && len(c.Session.SigningKey) < 32 {
		errs = append(errs, errors.New("SESSION_SIGNING_KEY must be at least 32 bytes"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Listing.LookupConcurrency < 1 {
		errs = append(errs, errors.New("LISTING_LOOKUP_CONCURRENCY must be at least 1"))
	}
	if (c.Bootstrap.OperatorEmail == "") != (c.Bootstrap.OperatorPassword == "") {
		errs = append(errs, errors.New("BOOTSTRAP_OPERATOR_EMAIL and BOOTSTRAP_OPERATOR_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
