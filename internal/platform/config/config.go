// Package config builds runtime configuration from the environment so main
// stays lean. Every setting has a local-dev default.
package config

import (
	"os"
	"strings"
	"time"
)

// Vendor holds one vendor client's connection settings.
type Vendor struct {
	BaseURL string
	Timeout time.Duration
}

// Config captures the full service configuration.
type Config struct {
	Addr string

	// Screening vendor (AML + fraud, shared API key)
	Screen       Vendor
	ScreenAPIKey string

	// Credit bureau
	Credit          Vendor
	CreditToken     string
	CreditClientRef string

	// Income vendor
	Income         Vendor
	IncomeClientID string
	IncomeSecret   string

	// Case store backends; empty means not configured
	PostgresDSN string
	RedisURL    string
	CaseTTL     time.Duration

	// Kafka audit sink; empty brokers means channel worker + memory store
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	timeout := durationEnv("VETGATE_VENDOR_TIMEOUT", 10*time.Second)

	return Config{
		Addr: env("VETGATE_ADDR", ":8080"),

		Screen:       Vendor{BaseURL: env("VETGATE_SCREEN_URL", "http://localhost:8081"), Timeout: timeout},
		ScreenAPIKey: env("VETGATE_SCREEN_API_KEY", "secret"),

		Credit:          Vendor{BaseURL: env("VETGATE_CREDIT_URL", "http://localhost:8100"), Timeout: timeout},
		CreditToken:     env("VETGATE_CREDIT_TOKEN", "sandbox-token"),
		CreditClientRef: env("VETGATE_CREDIT_CLIENT_REF", "vetgate"),

		Income:         Vendor{BaseURL: env("VETGATE_INCOME_URL", "http://localhost:8200"), Timeout: timeout},
		IncomeClientID: env("VETGATE_INCOME_CLIENT_ID", "sandbox"),
		IncomeSecret:   env("VETGATE_INCOME_SECRET", "sandbox"),

		PostgresDSN: os.Getenv("VETGATE_POSTGRES_DSN"),
		RedisURL:    os.Getenv("VETGATE_REDIS_URL"),
		CaseTTL:     durationEnv("VETGATE_CASE_TTL", 24*time.Hour),

		KafkaBrokers: splitEnv("VETGATE_KAFKA_BROKERS"),
		KafkaTopic:   env("VETGATE_KAFKA_TOPIC", "vetgate.audit"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
