package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/locale"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	LLM            LLMConfig            `yaml:"llm"`
	Interpretation InterpretationConfig `yaml:"interpretation"`
	Wellness       WellnessConfig       `yaml:"wellness"`
	Billing        BillingConfig        `yaml:"billing"`
	Storage        StorageConfig        `yaml:"storage"`
	InlineEdit     InlineEditConfig     `yaml:"inlineEdit"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes"`
	CORS         CORSConfig      `yaml:"cors"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains OpenAI-compatible upstream settings.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	FallbackModels []string      `yaml:"fallbackModels"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"maxTokens"`
	Deadline       time.Duration `yaml:"deadline"`
}

// Models returns the primary model followed by the fallbacks.
func (c LLMConfig) Models() []string {
	models := make([]string, 0, 1+len(c.FallbackModels))
	if m := strings.TrimSpace(c.Model); m != "" {
		models = append(models, m)
	}
	for _, m := range c.FallbackModels {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

// InterpretationConfig tunes the dream interpretation pipeline.
type InterpretationConfig struct {
	DefaultLanguage  string `yaml:"defaultLanguage"`
	MinAnalysisWords int    `yaml:"minAnalysisWords"`
	MinSymbols       int    `yaml:"minSymbols"`
	MinThemes        int    `yaml:"minThemes"`
	MinPrompts       int    `yaml:"minPrompts"`
	MinTextChars     int    `yaml:"minTextChars"`
	MaxTextChars     int    `yaml:"maxTextChars"`
	CompatAliases    bool   `yaml:"compatAliases"`
}

// Language is the configured default language, normalized.
func (c InterpretationConfig) Language() locale.Language {
	return locale.Normalize(c.DefaultLanguage, locale.Default)
}

// InterpretationPipeline assembles the interpretation service settings shared
// by the server and the CLI.
func (c *Config) InterpretationPipeline() interpretation.Config {
	ip := c.Interpretation
	return interpretation.Config{
		DefaultLanguage: ip.Language(),
		Thresholds: interpretation.Thresholds{
			MinAnalysisWords: ip.MinAnalysisWords,
			MinSymbols:       ip.MinSymbols,
			MinThemes:        ip.MinThemes,
			MinPrompts:       ip.MinPrompts,
		},
		MinTextChars:  ip.MinTextChars,
		MaxTextChars:  ip.MaxTextChars,
		MaxTokens:     c.LLM.MaxTokens,
		Temperature:   c.LLM.Temperature,
		CompatAliases: ip.CompatAliases,
	}
}

// WellnessConfig tunes the sleep and association generators.
type WellnessConfig struct {
	Temperature float32 `yaml:"temperature"`
}

// BillingConfig contains payment processor settings.
type BillingConfig struct {
	SecretKey      string        `yaml:"secretKey"`
	WebhookSecret  string        `yaml:"webhookSecret"`
	MonthlyPriceID string        `yaml:"monthlyPriceId"`
	AnnualPriceID  string        `yaml:"annualPriceId"`
	FrontendOrigin string        `yaml:"frontendOrigin"`
	EventTTL       time.Duration `yaml:"eventTtl"`
}

// StorageConfig selects persistence backends. Empty values fall back to memory.
type StorageConfig struct {
	Postgres    PostgresConfig    `yaml:"postgres"`
	SQLitePath  string            `yaml:"sqlitePath"`
	Valkey      ValkeyConfig      `yaml:"valkey"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the idempotency cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ObjectStoreConfig points at an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Configured reports whether enough settings exist to open a client.
func (c ObjectStoreConfig) Configured() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// InlineEditConfig toggles the apply-edit hook.
type InlineEditConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = parsed
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" {
			if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
				*dst = parsed
			}
		}
	}
	list := func(key string, dst *[]string) {
		if v := getenv(key); v != "" {
			*dst = splitList(v)
		}
	}

	str("HTTP_ADDRESS", &cfg.HTTP.Address)
	list("HTTP_CORS_ALLOWED_ORIGINS", &cfg.HTTP.CORS.AllowedOrigins)
	boolean("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	integer("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	integer("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	str("OPENAI_API_KEY", &cfg.LLM.APIKey)
	str("OPENAI_BASE_URL", &cfg.LLM.BaseURL)
	str("OPENAI_MODEL", &cfg.LLM.Model)
	list("OPENAI_FALLBACK_MODELS", &cfg.LLM.FallbackModels)
	if v := getenv("OPENAI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	integer("OPENAI_MAX_TOKENS", &cfg.LLM.MaxTokens)
	duration("LLM_DEADLINE", &cfg.LLM.Deadline)

	str("INTERPRET_DEFAULT_LANG", &cfg.Interpretation.DefaultLanguage)
	integer("INTERPRET_MIN_ANALYSIS_WORDS", &cfg.Interpretation.MinAnalysisWords)
	integer("INTERPRET_MIN_SYMBOLS", &cfg.Interpretation.MinSymbols)
	integer("INTERPRET_MIN_THEMES", &cfg.Interpretation.MinThemes)
	integer("INTERPRET_MIN_PROMPTS", &cfg.Interpretation.MinPrompts)
	boolean("INTERPRET_COMPAT_ALIASES", &cfg.Interpretation.CompatAliases)

	str("STRIPE_SECRET_KEY", &cfg.Billing.SecretKey)
	str("STRIPE_WEBHOOK_SECRET", &cfg.Billing.WebhookSecret)
	str("STRIPE_MONTHLY_PRICE_ID", &cfg.Billing.MonthlyPriceID)
	str("STRIPE_ANNUAL_PRICE_ID", &cfg.Billing.AnnualPriceID)
	str("FRONTEND_ORIGIN", &cfg.Billing.FrontendOrigin)

	str("DATABASE_URL", &cfg.Storage.Postgres.DSN)
	str("SQLITE_PATH", &cfg.Storage.SQLitePath)
	boolean("VALKEY_ENABLED", &cfg.Storage.Valkey.Enabled)
	str("VALKEY_ADDR", &cfg.Storage.Valkey.Addr)
	str("OBJECT_STORE_ENDPOINT", &cfg.Storage.ObjectStore.Endpoint)
	str("OBJECT_STORE_ACCESS_KEY", &cfg.Storage.ObjectStore.AccessKey)
	str("OBJECT_STORE_SECRET_KEY", &cfg.Storage.ObjectStore.SecretKey)
	str("OBJECT_STORE_BUCKET", &cfg.Storage.ObjectStore.Bucket)
	str("OBJECT_STORE_REGION", &cfg.Storage.ObjectStore.Region)

	boolean("ALLOW_INLINE_EDIT", &cfg.InlineEdit.Enabled)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 1 << 20,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:5173"},
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   2200,
			Deadline:    12 * time.Second,
		},
		Interpretation: InterpretationConfig{
			DefaultLanguage:  string(locale.Default),
			MinAnalysisWords: 300,
			MinSymbols:       5,
			MinThemes:        3,
			MinPrompts:       5,
			MinTextChars:     10,
			MaxTextChars:     8000,
			CompatAliases:    true,
		},
		Wellness: WellnessConfig{
			Temperature: 0.6,
		},
		Billing: BillingConfig{
			FrontendOrigin: "http://localhost:5173",
			EventTTL:       7 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.maxBodyBytes must be positive")
	}
	for _, origin := range c.HTTP.CORS.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("http.cors.allowedOrigins: %q must start with http:// or https://", origin)
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if len(c.LLM.Models()) == 0 {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Deadline <= 0 {
		return errors.New("llm.deadline must be positive")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if _, ok := locale.Parse(c.Interpretation.DefaultLanguage); !ok {
		return fmt.Errorf("interpretation.defaultLanguage %q is not supported", c.Interpretation.DefaultLanguage)
	}
	ip := c.Interpretation
	if ip.MinAnalysisWords <= 0 || ip.MinSymbols <= 0 || ip.MinThemes <= 0 || ip.MinPrompts <= 0 {
		return errors.New("interpretation thresholds must be positive")
	}
	if ip.MinTextChars < 1 {
		return errors.New("interpretation.minTextChars must be at least 1")
	}
	if ip.MaxTextChars < ip.MinTextChars {
		return errors.New("interpretation.maxTextChars must not be below minTextChars")
	}
	if c.Billing.EventTTL <= 0 {
		return errors.New("billing.eventTtl must be positive")
	}
	if c.Billing.SecretKey != "" && strings.TrimSpace(c.Billing.FrontendOrigin) == "" {
		return errors.New("billing.frontendOrigin is required when a stripe key is set")
	}
	if c.Storage.Valkey.Enabled && strings.TrimSpace(c.Storage.Valkey.Addr) == "" {
		return errors.New("storage.valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
