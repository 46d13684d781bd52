package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"casagateway-proxy/internal/signer"
)

// DefaultUpstreamURL is the CASAGATEWAY publisher properties endpoint
const DefaultUpstreamURL = "https://casagateway.ch/rest/publisher-properties"

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Upstream    UpstreamConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
}

// UpstreamConfig holds CASAGATEWAY access settings. The secrets may be empty;
// that is reported per request, not at startup.
type UpstreamConfig struct {
	BaseURL          string `validate:"required,url"`
	APIKey           string
	PrivateKey       string
	DefaultFormat    string `validate:"required"`
	FallbackProvider string
	Timeout          time.Duration `validate:"gt=0"`
	MaxBodyBytes     int64         `validate:"gt=0"`
}

// RateLimitConfig holds inbound rate limiting. Zero RPS disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

// LoggingConfig holds logrus settings
type LoggingConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=text json"`
}

// Credentials returns the signing secrets
func (c *UpstreamConfig) Credentials() signer.Credentials {
	return signer.Credentials{APIKey: c.APIKey, PrivateKey: c.PrivateKey}
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("CASAGATEWAY_BASE_URL", DefaultUpstreamURL)
	v.SetDefault("CASAGATEWAY_DEFAULT_FORMAT", "swissrets:2.7")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("UPSTREAM_MAX_BODY_BYTES", 16<<20)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Upstream: UpstreamConfig{
			BaseURL:          v.GetString("CASAGATEWAY_BASE_URL"),
			APIKey:           v.GetString(signer.APIKeyEnv),
			PrivateKey:       v.GetString(signer.PrivateKeyEnv),
			DefaultFormat:    v.GetString("CASAGATEWAY_DEFAULT_FORMAT"),
			FallbackProvider: v.GetString("CASAGATEWAY_FALLBACK_PROVIDER"),
			Timeout:          v.GetDuration("UPSTREAM_TIMEOUT"),
			MaxBodyBytes:     v.GetInt64("UPSTREAM_MAX_BODY_BYTES"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values that would break startup
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
