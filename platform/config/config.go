// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// GeminiConfig provides settings for the Gemini reasoning backend.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetBackendTimeout() time.Duration
}

// DataConfig provides locations of the startup datasets.
type DataConfig interface {
	GetCatalogPath() string
	GetPartnerCatalogPath() string
	GetPriceRulesPath() string
	GetPersonaPath() string
}

// InteractionsConfig provides settings for the interaction log sink.
type InteractionsConfig interface {
	GetLogDir() string
}

// ConciergeConfig provides settings for the conversation orchestrator.
type ConciergeConfig interface {
	GetMaxToolIterations() int
	GetBackendTimeout() time.Duration
	GetChatRatePerSecond() float64
	GetChatRateBurst() int
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application settings loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll bool
	CORSOrigins  []string

	GeminiAPIKey   string
	GeminiModel    string
	BackendTimeout time.Duration

	CatalogPath        string
	PartnerCatalogPath string
	PriceRulesPath     string
	PersonaPath        string
	LogDir             string

	MaxToolIterations int
	ChatRatePerSecond float64
	ChatRateBurst     int
}

// Load reads configuration from the environment (and an optional .env file)
// and validates startup-fatal settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		CORSAllowAll: corsAllowAll,
		CORSOrigins:  corsOrigins,

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BackendTimeout: mustDuration(getEnv("BACKEND_TIMEOUT", "30s")),

		CatalogPath:        getEnv("CATALOG_PATH", "data/catalog.json"),
		PartnerCatalogPath: getEnv("PARTNER_CATALOG_PATH", "data/partner_catalog.csv"),
		PriceRulesPath:     getEnv("PRICE_RULES_PATH", "data/price_rules.json"),
		PersonaPath:        getEnv("PERSONA_PATH", "me/assistant.yaml"),
		LogDir:             getEnv("LOG_DIR", "logs"),

		MaxToolIterations: mustInt(getEnv("MAX_TOOL_ITERATIONS", "8")),
		ChatRatePerSecond: mustFloat(getEnv("CHAT_RATE_PER_SECOND", "1")),
		ChatRateBurst:     mustInt(getEnv("CHAT_RATE_BURST", "5")),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.PriceRulesPath == "" {
		return nil, fmt.Errorf("PRICE_RULES_PATH is required")
	}
	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("CATALOG_PATH is required")
	}
	if cfg.MaxToolIterations < 1 {
		return nil, fmt.Errorf("MAX_TOOL_ITERATIONS must be at least 1")
	}
	if cfg.BackendTimeout <= 0 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

// HTTPConfig implementation.
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// GeminiConfig implementation.
func (c *Config) GetGeminiAPIKey() string          { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string           { return c.GeminiModel }
func (c *Config) GetBackendTimeout() time.Duration { return c.BackendTimeout }

// DataConfig implementation.
func (c *Config) GetCatalogPath() string        { return c.CatalogPath }
func (c *Config) GetPartnerCatalogPath() string { return c.PartnerCatalogPath }
func (c *Config) GetPriceRulesPath() string     { return c.PriceRulesPath }
func (c *Config) GetPersonaPath() string        { return c.PersonaPath }

// InteractionsConfig implementation.
func (c *Config) GetLogDir() string { return c.LogDir }

// ConciergeConfig implementation.
func (c *Config) GetMaxToolIterations() int     { return c.MaxToolIterations }
func (c *Config) GetChatRatePerSecond() float64 { return c.ChatRatePerSecond }
func (c *Config) GetChatRateBurst() int         { return c.ChatRateBurst }

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func mustFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
