// Package config loads finboardd settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is accepted outside production only.
const DefaultJWTSecret = "finboard-dev-secret-change-me"

// Config holds all configuration for finboardd.
type Config struct {
	GRPCPort       string
	HTTPPort       string
	GRPCReflection bool
	TLSCertFile    string
	TLSKeyFile     string

	// DatabaseURL is optional; empty selects in-memory repositories.
	DatabaseURL   string
	DBAutoMigrate bool

	// KafkaBroker is optional; empty selects the log-only publisher.
	KafkaBroker string
	KafkaTopic  string

	Environment  string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string

	JWTSecret        string
	JWTPublicKeyFile string
	JWTIssuer        string

	FraudLabs FraudLabsConfig
	Plaid     PlaidConfig
	Dwolla    DwollaConfig

	HTTPRateLimit float64
	// RandomSeed of zero selects the non-deterministic source.
	RandomSeed uint64
}

// FraudLabsConfig configures the remote fraud screener.
type FraudLabsConfig struct {
	APIKey              string
	BaseURL             string
	Timeout             time.Duration
	RateLimit           float64
	CacheTTL            time.Duration
	BreakerThreshold    int
	BreakerOpenDuration time.Duration
}

// PlaidConfig configures the account aggregator.
type PlaidConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
}

// DwollaConfig configures the payment rails used for transfers.
type DwollaConfig struct {
	Key         string
	Secret      string
	Environment string
	// BaseURL overrides the host derived from Environment.
	BaseURL string
}

var defaults = map[string]any{
	"GRPC_PORT":                       "8088",
	"HTTP_PORT":                       "9088",
	"GRPC_REFLECTION":                 false,
	"TLS_CERT_FILE":                   "",
	"TLS_KEY_FILE":                    "",
	"DATABASE_URL":                    "",
	"DB_AUTO_MIGRATE":                 true,
	"KAFKA_BROKER":                    "",
	"KAFKA_TOPIC":                     "finboard.fraud.events",
	"ENVIRONMENT":                     "development",
	"LOG_LEVEL":                       "info",
	"LOG_FORMAT":                      "json",
	"OTEL_EXPORTER_OTLP_ENDPOINT":     "",
	"JWT_SECRET":                      DefaultJWTSecret,
	"JWT_PUBLIC_KEY_FILE":             "",
	"JWT_ISSUER":                      "",
	"FRAUDLABS_API_KEY":               "",
	"FRAUDLABS_BASE_URL":              "https://api.fraudlabspro.com/v1/order/screen",
	"FRAUDLABS_TIMEOUT":               "5s",
	"FRAUDLABS_RATE_LIMIT":            5.0,
	"FRAUDLABS_CACHE_TTL":             "5m",
	"FRAUDLABS_BREAKER_THRESHOLD":     5,
	"FRAUDLABS_BREAKER_OPEN_DURATION": "30s",
	"PLAID_CLIENT_ID":                 "",
	"PLAID_SECRET":                    "",
	"PLAID_BASE_URL":                  "https://sandbox.plaid.com",
	"DWOLLA_KEY":                      "",
	"DWOLLA_SECRET":                   "",
	"DWOLLA_ENV":                      "sandbox",
	"DWOLLA_BASE_URL":                 "",
	"HTTP_RATE_LIMIT":                 100.0,
	"RANDOM_SEED":                     0,
}

// Load reads configuration from environment variables, after loading a
// .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		GRPCPort:       v.GetString("GRPC_PORT"),
		HTTPPort:       v.GetString("HTTP_PORT"),
		GRPCReflection: v.GetBool("GRPC_REFLECTION"),
		TLSCertFile:    v.GetString("TLS_CERT_FILE"),
		TLSKeyFile:     v.GetString("TLS_KEY_FILE"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBAutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		KafkaBroker:    v.GetString("KAFKA_BROKER"),
		KafkaTopic:     v.GetString("KAFKA_TOPIC"),
		Environment:    v.GetString("ENVIRONMENT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		OTLPEndpoint:   v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTPublicKeyFile: v.GetString("JWT_PUBLIC_KEY_FILE"),
		JWTIssuer:        v.GetString("JWT_ISSUER"),

		FraudLabs: FraudLabsConfig{
			APIKey:              v.GetString("FRAUDLABS_API_KEY"),
			BaseURL:             v.GetString("FRAUDLABS_BASE_URL"),
			Timeout:             v.GetDuration("FRAUDLABS_TIMEOUT"),
			RateLimit:           v.GetFloat64("FRAUDLABS_RATE_LIMIT"),
			CacheTTL:            v.GetDuration("FRAUDLABS_CACHE_TTL"),
			BreakerThreshold:    v.GetInt("FRAUDLABS_BREAKER_THRESHOLD"),
			BreakerOpenDuration: v.GetDuration("FRAUDLABS_BREAKER_OPEN_DURATION"),
		},
		Plaid: PlaidConfig{
			ClientID: v.GetString("PLAID_CLIENT_ID"),
			Secret:   v.GetString("PLAID_SECRET"),
			BaseURL:  v.GetString("PLAID_BASE_URL"),
		},
		Dwolla: DwollaConfig{
			Key:         v.GetString("DWOLLA_KEY"),
			Secret:      v.GetString("DWOLLA_SECRET"),
			Environment: strings.ToLower(v.GetString("DWOLLA_ENV")),
			BaseURL:     v.GetString("DWOLLA_BASE_URL"),
		},

		HTTPRateLimit: v.GetFloat64("HTTP_RATE_LIMIT"),
		RandomSeed:    v.GetUint64("RANDOM_SEED"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.GRPCPort == "" || c.HTTPPort == "" {
		errs = append(errs, errors.New("GRPC_PORT and HTTP_PORT are required"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.IsProduction() && c.JWTPublicKeyFile == "" && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.FraudLabs.Timeout <= 0 {
		errs = append(errs, errors.New("FRAUDLABS_TIMEOUT must be positive"))
	}
	if c.FraudLabs.RateLimit <= 0 || c.HTTPRateLimit <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.Dwolla.BaseURL == "" && c.Dwolla.Environment != "sandbox" && c.Dwolla.Environment != "production" {
		errs = append(errs, fmt.Errorf("DWOLLA_ENV must be sandbox or production, got %q", c.Dwolla.Environment))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// FraudLabsConfigured reports whether the remote screener has a credential.
func (c *Config) FraudLabsConfigured() bool {
	return c.FraudLabs.APIKey != ""
}

// PlaidConfigured reports whether the aggregator has credentials.
func (c *Config) PlaidConfigured() bool {
	return c.Plaid.ClientID != "" && c.Plaid.Secret != ""
}

// DwollaConfigured reports whether the payment rails have credentials.
func (c *Config) DwollaConfigured() bool {
	return c.Dwolla.Key != "" && c.Dwolla.Secret != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}
