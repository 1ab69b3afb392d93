package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	ServerPort      string
	FrontendURL     string
	OpenAIKey       string
	AIProvider      string
	AIModel         string
	AIBaseURL       string
	SlackWebhookURL string
	RedisURL        string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from the environment. A .env file in the working
// directory is applied first if present, never overriding real env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		AIProvider:      getEnv("AI_PROVIDER", "openai"),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for summary generation")
	}

	// SLACK_WEBHOOK_URL stays optional: its absence disables the
	// send-to-Slack path at the point of use, it never fails startup.
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
