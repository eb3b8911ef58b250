// Package llm provides the text completion clients used to summarize conversations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
)

// DefaultSystemPrompt is sent with every request unless Params.System overrides it
const DefaultSystemPrompt = "You are a helpful assistant that summarizes Webex conversations accurately and concisely."

// Client generates text for a prompt. Every Client satisfies summarizer.Completer.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Params are the sampling parameters shared by all providers
type Params struct {
	System      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ParamsFromConfig extracts the sampling parameters of an LLM configuration
func ParamsFromConfig(cfg internal.LLMConfig) Params {
	return Params{
		System:      DefaultSystemPrompt,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	}
}

func (p Params) system() string {
	if p.System == "" {
		return DefaultSystemPrompt
	}
	return p.System
}

func (p Params) maxTokens() int {
	if p.MaxTokens <= 0 {
		return 4096
	}
	return p.MaxTokens
}

var (
	// ErrUnknownProvider is returned by New for providers it cannot build
	ErrUnknownProvider = errors.New("unknown llm provider")
	// ErrMissingAPIKey is returned when an HTTP provider has no key
	ErrMissingAPIKey = errors.New("llm api key is not set")
	// ErrUnsupportedModel is returned for model IDs whose request format is unknown
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrEmptyResponse is returned when a provider answers without text
	ErrEmptyResponse = errors.New("empty model response")
)

// APIError is a non-2xx response from a completion API
type APIError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s api error %d: %s: %s", e.Provider, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("%s api error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Retryable reports whether sending the same request again may succeed
func (e *APIError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout, 529:
		return true
	}
	return e.StatusCode >= 500
}

// New builds the client selected by cfg.Provider. HTTP providers are wrapped in a
// Retrying client; Bedrock relies on the AWS SDK retryer.
func New(ctx context.Context, cfg internal.LLMConfig) (Client, error) {
	params := ParamsFromConfig(cfg)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	switch cfg.Provider {
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		c := NewAnthropicClient(cfg.APIKey, cfg.Model, params, timeout)
		if cfg.BaseURL != "" {
			c.SetURL(cfg.BaseURL)
		}
		return NewRetrying(c, cfg.MaxRetries), nil
	case "openai":
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, ErrMissingAPIKey
		}
		return NewRetrying(NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, params, timeout), cfg.MaxRetries), nil
	case "bedrock":
		return NewBedrockClient(ctx, BedrockOptions{
			Profile:    cfg.AWSProfile,
			Region:     cfg.AWSRegion,
			Model:      cfg.Model,
			Params:     params,
			Timeout:    timeout,
			MaxRetries: cfg.MaxRetries,
		})
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, cfg.Provider)
	}
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
