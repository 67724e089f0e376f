// Package config centralises configuration parsing for the action tracker.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the action tracker.
type Config struct {
	HTTPAddress          string
	PostgresURL          string // Empty disables the action journal.
	KafkaBrokers         []string
	ConsumerGroupID      string
	ConsumerTopics       []string // Empty disables the Kafka consumer.
	StatsTopic           string   // Empty disables the stats publisher.
	StatsPublishInterval time.Duration
	JWTSecret            string
	JWTIssuer            string
	AuthDisabled         bool
	MaxBodyBytes         int64
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	return Config{
		HTTPAddress:          getEnv("HTTP_ADDRESS", ":8080"),
		PostgresURL:          getEnv("POSTGRES_URL", ""),
		KafkaBrokers:         splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		ConsumerGroupID:      getEnv("CONSUMER_GROUP_ID", "action-tracker"),
		ConsumerTopics:       splitAndTrim(getEnv("CONSUMER_TOPICS", "")),
		StatsTopic:           getEnv("STATS_TOPIC", ""),
		StatsPublishInterval: getDurationEnv("STATS_PUBLISH_INTERVAL", 5*time.Second),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:            getEnv("JWT_ISSUER", "i5e.identity"),
		AuthDisabled:         getBoolEnv("AUTH_DISABLED", false),
		MaxBodyBytes:         int64(getIntEnv("MAX_BODY_BYTES", 1<<20)),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
