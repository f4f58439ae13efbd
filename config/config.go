package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// SandboxClientID is handed to the payment widget when no PayPal client id is configured
const SandboxClientID = "sb"

// DevJWTSecret signs tokens in development when JWT_SECRET is unset. Any
// other environment must set its own secret.
const DevJWTSecret = "somethingsecret"

const envDevelopment = "development"

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"5000"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"somethingsecret"`

	MongoDB   MongoDB   `envPrefix:"MONGODB_"`
	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	Email     Email     `envPrefix:"EMAIL_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	AMQP      AMQP      `envPrefix:"AMQP_"`
	Telemetry Telemetry `envPrefix:"OTEL_"`

	// provider credentials keep their vendor's conventional names
	PostmarkToken  string `env:"POSTMARK_API_TOKEN"`
	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
}

type MongoDB struct {
	URL      string `env:"URL" envDefault:"mongodb://localhost/amazona"`
	Database string `env:"DATABASE" envDefault:"amazona"`
}

type Paypal struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
}

type Email struct {
	Provider string `env:"PROVIDER" envDefault:"none"`
	Sender   string `env:"SENDER" envDefault:"orders@amazona.local"`
}

type Redis struct {
	URL             string        `env:"URL"`
	ProductCacheTTL time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"1m"`
}

type AMQP struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"storefront"`
}

type Telemetry struct {
	Stdout bool `env:"STDOUT" envDefault:"false"`
}

// Load reads .env when present and parses the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want mongo or memory", c.StoreDriver)
	}
	switch c.Email.Provider {
	case "none", "postmark", "sendgrid":
	default:
		return fmt.Errorf("invalid EMAIL_PROVIDER %q: want none, postmark or sendgrid", c.Email.Provider)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Environment != envDevelopment && c.JWTSecret == DevJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when ENVIRONMENT is %q", c.Environment)
	}
	return nil
}

// PaypalClientID is the id exposed to the payment widget
func (c *Config) PaypalClientID() string {
	if c.Paypal.ClientID == "" {
		return SandboxClientID
	}
	return c.Paypal.ClientID
}

// PaypalVerification reports whether server-side payment checks are possible
func (c *Config) PaypalVerification() bool {
	return c.Paypal.ClientID != "" && c.Paypal.ClientSecret != ""
}
