package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration signals missing or invalid startup configuration.
var ErrConfiguration = errors.New("configuration error")

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Index store
	IndexDriver string // sqlite, postgres, redis or bleve
	SQLitePath  string
	BlevePath   string // empty keeps the bleve index in memory
	DatabaseURL string
	RedisURL    string

	// Ledger
	LedgerDriver     string // hedera or log
	HederaNetwork    string
	HederaAccountID  string
	HederaPrivateKey string
	HederaTopicID    string
	LedgerTimeout    time.Duration

	// Reply generation
	GroqAPIKey   string
	ReplyBaseURL string
	ReplyModel   string

	CORSOrigins []string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// It loads a .env file first if one is present.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		IndexDriver:      getEnv("INDEX_DRIVER", "sqlite"),
		SQLitePath:       getEnv("SQLITE_PATH", "chat_history.db"),
		BlevePath:        os.Getenv("BLEVE_PATH"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		LedgerDriver:     getEnv("LEDGER_DRIVER", "hedera"),
		HederaNetwork:    getEnv("HEDERA_NETWORK", "testnet"),
		HederaAccountID:  os.Getenv("HEDERA_ACCOUNT_ID"),
		HederaPrivateKey: os.Getenv("HEDERA_PRIVATE_KEY"),
		HederaTopicID:    os.Getenv("HEDERA_TOPIC_ID"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		ReplyBaseURL:     os.Getenv("REPLY_BASE_URL"),
		ReplyModel:       os.Getenv("REPLY_MODEL"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	cfg.RateLimitWhitelist = splitList(os.Getenv("RATE_LIMIT_WHITELIST"))

	timeout, err := time.ParseDuration(getEnv("LEDGER_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("%w: LEDGER_TIMEOUT: %v", ErrConfiguration, err)
	}
	cfg.LedgerTimeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every selected driver has what it needs.
func (c *Config) Validate() error {
	var missing []string

	switch c.IndexDriver {
	case "sqlite", "bleve":
	case "postgres":
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case "redis":
		if c.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	default:
		return fmt.Errorf("%w: unknown INDEX_DRIVER %q", ErrConfiguration, c.IndexDriver)
	}

	switch c.LedgerDriver {
	case "hedera":
		if c.HederaAccountID == "" {
			missing = append(missing, "HEDERA_ACCOUNT_ID")
		}
		if c.HederaPrivateKey == "" {
			missing = append(missing, "HEDERA_PRIVATE_KEY")
		}
		if c.HederaTopicID == "" {
			missing = append(missing, "HEDERA_TOPIC_ID")
		}
	case "log":
		if c.Env == "production" {
			return fmt.Errorf("%w: LEDGER_DRIVER=log is not allowed in production", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown LEDGER_DRIVER %q", ErrConfiguration, c.LedgerDriver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TopicID returns the ledger topic messages are anchored on.
func (c *Config) TopicID() string {
	if c.HederaTopicID == "" {
		return "local"
	}
	return c.HederaTopicID
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
