package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/freewrite/internal/editor"
)

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Auth for the HTTP API. Empty disables it.
	APIKey     string `yaml:"api_key"`
	Production bool   `yaml:"production"`

	// Suggestion source
	Provider        string        `yaml:"provider"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	AnthropicModel  string        `yaml:"anthropic_model"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	OpenAIModel     string        `yaml:"openai_model"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`

	// Persistence
	StoreBackend    string `yaml:"store_backend"`
	StorePath       string `yaml:"store_path"`
	PathstoreURL    string `yaml:"pathstore_url"`
	PathstoreAPIKey string `yaml:"pathstore_api_key"`

	// Editor
	HistoryCapacity int           `yaml:"history_capacity"`
	DeclinedPolicy  string        `yaml:"declined_policy"`
	DeclinedMax     int           `yaml:"declined_max"`
	Timing          editor.Timing `yaml:"timing"`
	ViewportLines   int           `yaml:"viewport_lines"`

	// Limits
	MaxUploadBytes   int64 `yaml:"max_upload_bytes"`
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

func defaults() Config {
	return Config{
		Port:                 "8090",
		LogLevel:             "info",
		Provider:             ProviderAnthropic,
		AnthropicModel:       "claude-haiku-4-5",
		OpenAIModel:          "gpt-4o-mini",
		LLMTimeout:           120 * time.Second,
		StoreBackend:         "badger",
		StorePath:            "data",
		HistoryCapacity:      editor.DefaultHistoryCapacity,
		DeclinedPolicy:       string(editor.DeclinedPermanent),
		Timing:               editor.DefaultTiming(),
		ViewportLines:        40,
		MaxUploadBytes:       10485760,  // 10MB
		MaxDocumentBytes:     1048576,   // 1MB
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// FREEWRITE_CONFIG if any, and then the environment, which wins.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("FREEWRITE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.APIKey = envOr("FREEWRITE_API_KEY", cfg.APIKey)
	cfg.Production = envBool("PRODUCTION", cfg.Production)

	cfg.Provider = strings.ToLower(envOr("SUGGEST_PROVIDER", cfg.Provider))
	cfg.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)
	cfg.AnthropicModel = envOr("ANTHROPIC_MODEL", cfg.AnthropicModel)
	cfg.OpenAIAPIKey = envOr("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = envOr("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = envOr("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.LLMTimeout = envDuration("LLM_TIMEOUT", cfg.LLMTimeout)

	cfg.StoreBackend = strings.ToLower(envOr("STORE_BACKEND", cfg.StoreBackend))
	cfg.StorePath = envOr("STORE_PATH", cfg.StorePath)
	cfg.PathstoreURL = envOr("PATHSTORE_URL", cfg.PathstoreURL)
	cfg.PathstoreAPIKey = envOr("PATHSTORE_API_KEY", cfg.PathstoreAPIKey)

	cfg.HistoryCapacity = envInt("HISTORY_CAPACITY", cfg.HistoryCapacity)
	cfg.DeclinedPolicy = envOr("DECLINED_POLICY", cfg.DeclinedPolicy)
	cfg.DeclinedMax = envInt("DECLINED_MAX", cfg.DeclinedMax)
	cfg.Timing.ScrollSettle = envDuration("SCROLL_SETTLE", cfg.Timing.ScrollSettle)
	cfg.Timing.CursorDwell = envDuration("CURSOR_DWELL", cfg.Timing.CursorDwell)
	cfg.Timing.StrikeDwell = envDuration("STRIKE_DWELL", cfg.Timing.StrikeDwell)
	cfg.Timing.TypeTick = envDuration("TYPE_TICK", cfg.Timing.TypeTick)
	cfg.Timing.StagePause = envDuration("STAGE_PAUSE", cfg.Timing.StagePause)
	cfg.ViewportLines = envInt("VIEWPORT_LINES", cfg.ViewportLines)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.MaxDocumentBytes = envInt64("MAX_DOCUMENT_BYTES", cfg.MaxDocumentBytes)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.clamp()
	return cfg, nil
}

func (c *Config) clamp() {
	d := defaults()
	if c.HistoryCapacity <= 0 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	if c.DeclinedMax < 0 {
		c.DeclinedMax = 0
	}
	if c.ViewportLines <= 0 {
		c.ViewportLines = d.ViewportLines
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxDocumentBytes <= 0 {
		c.MaxDocumentBytes = d.MaxDocumentBytes
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = d.LLMTimeout
	}
	for _, p := range []*time.Duration{
		&c.Timing.ScrollSettle, &c.Timing.CursorDwell, &c.Timing.StrikeDwell,
		&c.Timing.TypeTick, &c.Timing.StagePause,
	} {
		if *p < 0 {
			*p = 0
		}
	}
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown SUGGEST_PROVIDER %q", c.Provider)
	}
	switch c.StoreBackend {
	case "badger", "memory":
	case "pathstore":
		if c.PathstoreURL == "" {
			return fmt.Errorf("PATHSTORE_URL is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if _, err := editor.ParseDeclinedPolicy(c.DeclinedPolicy); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
