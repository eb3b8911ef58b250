package summarizer

import (
	"unicode/utf8"

	"github.com/iksnae/webex-summarizer/internal"
)

// Estimator approximates token counts from character length.
// It never consults a real tokenizer and grows monotonically with text length.
type Estimator struct {
	CharsPerToken  int
	OverheadTokens int
}

// Text estimates the tokens of s as ceil(runes / CharsPerToken).
func (e Estimator) Text(s string) int {
	if s == "" {
		return 0
	}
	k := e.CharsPerToken
	if k <= 0 {
		k = DefaultCharsPerToken
	}
	n := utf8.RuneCountInString(s)
	return (n + k - 1) / k
}

// Message estimates a rendered message: its text plus the fixed per-message overhead.
// A message without text costs the overhead only.
func (e Estimator) Message(m internal.Message) int {
	overhead := e.OverheadTokens
	if overhead < 0 {
		overhead = 0
	}
	return overhead + e.Text(m.Text)
}

// Messages sums the estimate over all messages.
func (e Estimator) Messages(messages []internal.Message) int {
	total := 0
	for _, m := range messages {
		total += e.Message(m)
	}
	return total
}
