package summarizer

import (
	"errors"
	"fmt"
)

const (
	// DefaultMaxContextTokens is the context size assumed for the model family.
	DefaultMaxContextTokens = 50000
	// DefaultSafetyBufferTokens is reserved for instructions and the model's reply.
	DefaultSafetyBufferTokens = 5000
	// DefaultCharsPerToken is the estimation ratio for English text.
	DefaultCharsPerToken = 4
	// DefaultMessageOverheadTokens covers the rendered timestamp and sender of a message.
	DefaultMessageOverheadTokens = 20
)

var (
	// ErrNilCompleter is returned when a Summarizer is built without a completion client.
	ErrNilCompleter = errors.New("summarizer: completion client is nil")
	// ErrInvalidBudget is returned when the safety buffer leaves no room for messages.
	ErrInvalidBudget = errors.New("summarizer: chunk budget must be positive")
)

// Config holds the sizing parameters of a Summarizer.
// Zero values fall back to the defaults above.
//
// CharsPerToken and MaxContextTokens are independent settings; changing the
// model does not change how text is estimated.
type Config struct {
	MaxContextTokens      int `yaml:"max_context_tokens"`
	SafetyBufferTokens    int `yaml:"safety_buffer_tokens"`
	CharsPerToken         int `yaml:"chars_per_token"`
	MessageOverheadTokens int `yaml:"message_overhead_tokens"`
}

// DefaultConfig returns a Config populated with the defaults.
func DefaultConfig() Config {
	return Config{
		MaxContextTokens:      DefaultMaxContextTokens,
		SafetyBufferTokens:    DefaultSafetyBufferTokens,
		CharsPerToken:         DefaultCharsPerToken,
		MessageOverheadTokens: DefaultMessageOverheadTokens,
	}
}

func (c Config) GetMaxContextTokens() int {
	if c.MaxContextTokens <= 0 {
		return DefaultMaxContextTokens
	}
	return c.MaxContextTokens
}

func (c Config) GetSafetyBufferTokens() int {
	if c.SafetyBufferTokens <= 0 {
		return DefaultSafetyBufferTokens
	}
	return c.SafetyBufferTokens
}

func (c Config) GetCharsPerToken() int {
	if c.CharsPerToken <= 0 {
		return DefaultCharsPerToken
	}
	return c.CharsPerToken
}

func (c Config) GetMessageOverheadTokens() int {
	if c.MessageOverheadTokens <= 0 {
		return DefaultMessageOverheadTokens
	}
	return c.MessageOverheadTokens
}

// Budget is the largest estimated token count allowed in one chunk.
func (c Config) Budget() int {
	return c.GetMaxContextTokens() - c.GetSafetyBufferTokens()
}

// Validate checks that the configuration leaves a positive chunk budget.
func (c Config) Validate() error {
	if c.Budget() <= 0 {
		return fmt.Errorf("%w: max context %d, safety buffer %d",
			ErrInvalidBudget, c.GetMaxContextTokens(), c.GetSafetyBufferTokens())
	}
	return nil
}

// Estimator returns the token estimator described by this configuration.
func (c Config) Estimator() Estimator {
	return Estimator{
		CharsPerToken:  c.GetCharsPerToken(),
		OverheadTokens: c.GetMessageOverheadTokens(),
	}
}
