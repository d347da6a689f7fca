package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/harshitmangtani02/aitf/internal/session"
)

type AppConfig struct {
	// Model provider credentials and routing.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// HTTPTimeout bounds every outbound call (model and weather).
	HTTPTimeout time.Duration

	// Session storage backend and retention.
	SessionStore  session.StoreType
	SessionTTL    time.Duration
	SweepInterval time.Duration
	RedisAddr     string
	RedisPassword string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg.OpenAIBaseURL = getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-3.5-turbo")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.SessionStore = session.StoreType(getenvDefault("SESSION_STORE", string(session.StoreTypeMemory)))
	switch cfg.SessionStore {
	case session.StoreTypeMemory, session.StoreTypeRedis:
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE: %q", cfg.SessionStore)
	}

	ttlStr := getenvDefault("SESSION_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	cfg.SweepInterval = time.Duration(getenvInt("SESSION_SWEEP_MINUTES", 10)) * time.Minute

	cfg.RedisAddr = getenvDefault("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
