package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Search      SearchConfig     `toml:"search"`
	Processing  ProcessingConfig `toml:"processing"`
	Export      ExportConfig     `toml:"export"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

// GeminiConfig contains Google Gemini API configuration. Gemini provides the
// embedding model and is the default completion provider.
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Completion model (default: "gemini-2.0-flash")
	EmbedModel     string  `toml:"embed_model"`     // Embedding model (default: "gemini-embedding-001")
	EmbedDimension int     `toml:"embed_dimension"` // Embedding output dimensionality (default: 768)
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string (default: "5m")
	RateLimit      string  `toml:"rate_limit"`      // Minimum interval between requests (default: "4s")
	Temperature    float32 `toml:"temperature"`     // Completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Completion model (default: "claude-sonnet-4-20250514")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 2000)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "5m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider-agnostic completion client configuration
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"` // "gemini" or "claude"
	MaxAttempts     int         `toml:"max_attempts" validate:"min=1"`                   // Total attempt budget per call (default: 5)
	InitialBackoff  string      `toml:"initial_backoff"`                                 // First retry delay (default: "1s")
	MaxBackoff      string      `toml:"max_backoff"`                                     // Backoff cap (default: "10s")
}

// SearchConfig contains similarity search behaviour
type SearchConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold" validate:"gte=0,lte=1"` // Minimum cosine similarity (default: 0.8)
	MaxResults          int     `toml:"max_results" validate:"min=1"`                // Result cap per search (default: 5)
}

// ProcessingConfig contains the scheduled reference-library ingestion settings
type ProcessingConfig struct {
	Enabled      bool   `toml:"enabled"`       // Disabled by default
	Schedule     string `toml:"schedule"`      // Cron schedule format (with seconds)
	ReferenceDir string `toml:"reference_dir"` // Directory of reference documents (.md/.html)
}

// ExportConfig contains document export settings
type ExportConfig struct {
	Dir string `toml:"dir"` // Output directory for HTML exports
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in ideaforge.toml; technical
// parameters are hardcoded here for stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:         "",
			Model:          "gemini-2.0-flash",
			EmbedModel:     "gemini-embedding-001",
			EmbedDimension: 768,
			Timeout:        "5m",
			RateLimit:      "4s", // 15 RPM free tier
			Temperature:    0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   2000,
			Timeout:     "5m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderClaude,
			MaxAttempts:     5,
			InitialBackoff:  "1s",
			MaxBackoff:      "10s",
		},
		Search: SearchConfig{
			SimilarityThreshold: 0.8,
			MaxResults:          5,
		},
		Processing: ProcessingConfig{
			Enabled:      false,
			Schedule:     "0 0 */6 * * *", // Every 6 hours (cron format with seconds)
			ReferenceDir: "./reference",
		},
		Export: ExportConfig{
			Dir: "./exports",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path loads defaults plus environment overrides only.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("IDEAFORGE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if badgerPath := os.Getenv("IDEAFORGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("IDEAFORGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}

	if provider := os.Getenv("IDEAFORGE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
	if attempts := os.Getenv("IDEAFORGE_LLM_MAX_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil && n > 0 {
			config.LLM.MaxAttempts = n
		}
	}

	if dir := os.Getenv("IDEAFORGE_REFERENCE_DIR"); dir != "" {
		config.Processing.ReferenceDir = dir
	}
}
