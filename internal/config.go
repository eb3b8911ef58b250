package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config path used when --config is not given
const DefaultConfigFile = "config.yaml"

// Config is the application configuration loaded from YAML, .env and the environment
type Config struct {
	Webex      WebexConfig      `yaml:"webex"`
	Storage    StorageConfig    `yaml:"storage"`
	LLM        LLMConfig        `yaml:"llm"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// WebexConfig configures the Webex REST client
type WebexConfig struct {
	Token             string  `yaml:"token"`
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	MaxRetries        int     `yaml:"max_retries"`
}

// StorageConfig configures where conversations, the catalog and the room cache live
type StorageConfig struct {
	Directory    string        `yaml:"directory"`
	Catalog      string        `yaml:"catalog,omitempty"`
	RoomCacheTTL time.Duration `yaml:"room_cache_ttl"`
}

// LLMConfig configures the completion client
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // "bedrock", "anthropic" or "openai"
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	AWSProfile  string        `yaml:"aws_profile,omitempty"`
	AWSRegion   string        `yaml:"aws_region,omitempty"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	TopP        float64       `yaml:"top_p"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// SummarizerConfig holds the chunking parameters of the summarizer
type SummarizerConfig struct {
	MaxContextTokens      int `yaml:"max_context_tokens"`
	SafetyBufferTokens    int `yaml:"safety_buffer_tokens"`
	CharsPerToken         int `yaml:"chars_per_token"`
	MessageOverheadTokens int `yaml:"message_overhead_tokens"`
}

// Providers lists the supported completion providers
var Providers = []string{"bedrock", "anthropic", "openai"}

var (
	errUnknownProvider = errors.New("unknown provider")
	errEmptyValue      = errors.New("must not be empty")
	errNotPositive     = errors.New("must be positive")
)

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Webex: WebexConfig{
			BaseURL:           "https://webexapis.com/v1",
			RequestsPerSecond: 5,
			Burst:             5,
			MaxRetries:        3,
		},
		Storage: StorageConfig{
			Directory:    "conversations",
			RoomCacheTTL: 15 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:    "bedrock",
			Model:       "anthropic.claude-v2",
			AWSProfile:  "default",
			AWSRegion:   "us-east-1",
			MaxTokens:   4096,
			Temperature: 0.7,
			TopP:        0.9,
			Timeout:     5 * time.Minute,
			MaxRetries:  3,
		},
		Summarizer: SummarizerConfig{
			MaxContextTokens:      50000,
			SafetyBufferTokens:    5000,
			CharsPerToken:         4,
			MessageOverheadTokens: 20,
		},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies
// .env and environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ParseError{Source: "config", Key: path, Err: err}
		}
		LogDebug("Loaded config from %s", path)
	case os.IsNotExist(err):
		LogDebug("Config file %s not found, using defaults", path)
	default:
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv("WEBEX_TOKEN"); v != "" {
		c.Webex.Token = v
	}
	if v := os.Getenv("WEBEX_BASE_URL"); v != "" {
		c.Webex.BaseURL = v
	}
	if v := os.Getenv("WEBEX_SUMMARIZER_STORAGE"); v != "" {
		c.Storage.Directory = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.MaxRetries = n
		}
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		c.LLM.AWSProfile = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.LLM.AWSRegion = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "anthropic":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if !isKnownProvider(c.LLM.Provider) {
		return &ConfigError{Field: "llm.provider", Err: fmt.Errorf("%w %q (want one of %s)",
			errUnknownProvider, c.LLM.Provider, strings.Join(Providers, ", "))}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return &ConfigError{Field: "llm.model", Err: errEmptyValue}
	}
	if strings.TrimSpace(c.Storage.Directory) == "" {
		return &ConfigError{Field: "storage.directory", Err: errEmptyValue}
	}
	if c.Webex.RequestsPerSecond <= 0 {
		return &ConfigError{Field: "webex.requests_per_second", Err: errNotPositive}
	}
	if c.Summarizer.MaxContextTokens > 0 && c.Summarizer.SafetyBufferTokens >= c.Summarizer.MaxContextTokens {
		return &ConfigError{Field: "summarizer.safety_buffer_tokens",
			Err: fmt.Errorf("must be smaller than max_context_tokens (%d)", c.Summarizer.MaxContextTokens)}
	}
	return nil
}

// CatalogPath returns the SQLite catalog location, defaulting to the storage directory
func (c *Config) CatalogPath() string {
	if c.Storage.Catalog != "" {
		return c.Storage.Catalog
	}
	return filepath.Join(c.Storage.Directory, "catalog.db")
}

// RoomCachePath returns the location of the cached room listing
func (c *Config) RoomCachePath() string {
	return filepath.Join(c.Storage.Directory, "rooms.yaml")
}

// Masked returns a copy with secrets replaced, safe for printing
func (c *Config) Masked() *Config {
	masked := *c
	masked.Webex.Token = MaskSecret(c.Webex.Token)
	masked.LLM.APIKey = MaskSecret(c.LLM.APIKey)
	return &masked
}

// SaveConfig writes cfg as YAML. The file may hold a token so it is not world-readable.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return &ParseError{Source: "config", Key: path, Err: err}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &StorageError{Path: dir, Op: "mkdir", Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// MaskSecret keeps the last four characters of a secret
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func isKnownProvider(p string) bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}
