// Package summarizer condenses room conversations with a text completion model.
//
// Conversations that fit the chunk budget are sent in a single request. Longer
// ones are split into token-bounded chunks that are summarized one at a time,
// in order, and the partial results are then combined by one final request.
// Question answering follows the same path but drops parts in which the model
// found nothing relevant.
package summarizer

import (
	"context"
	"fmt"

	"github.com/iksnae/webex-summarizer/internal"
)

// Completer turns a prompt into model-generated text.
// Implementations own their timeouts and retries.
type Completer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f CompleterFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ProgressFunc observes processing steps. It is called synchronously, in order,
// on the caller's goroutine. current never decreases and the last call of a run
// has current == total.
type ProgressFunc func(current, total int, status string)

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithProgress sets the progress observer used when a Request carries none.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Summarizer) {
		s.progress = fn
	}
}

// Summarizer runs summaries and question answering over message lists.
// It holds no per-run state and may be reused.
type Summarizer struct {
	completer Completer
	cfg       Config
	progress  ProgressFunc
}

// New creates a Summarizer.
func New(completer Completer, cfg Config, opts ...Option) (*Summarizer, error) {
	if completer == nil {
		return nil, ErrNilCompleter
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Summarizer{
		completer: completer,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Request is the input of one Summarize or Answer call.
type Request struct {
	Messages  []internal.Message
	RoomLabel string
	// Question is only used by Answer.
	Question string
	// Progress overrides the Summarizer's observer for this call.
	Progress ProgressFunc
}

// Plan describes how a message list will be processed.
type Plan struct {
	TotalTokens int
	Budget      int
	SinglePass  bool
	Chunks      []Chunk
	// Calls is the number of completion requests a summary will make.
	Calls int
}

// Plan estimates messages and partitions them without calling the model.
func (s *Summarizer) Plan(messages []internal.Message) Plan {
	return PlanFor(messages, s.cfg)
}

// PlanFor computes the processing plan of messages under cfg.
func PlanFor(messages []internal.Message, cfg Config) Plan {
	est := cfg.Estimator()
	plan := Plan{
		TotalTokens: est.Messages(messages),
		Budget:      cfg.Budget(),
	}
	if len(messages) == 0 {
		return plan
	}

	plan.Chunks = Partition(messages, plan.Budget, est)
	if plan.TotalTokens <= plan.Budget {
		plan.SinglePass = true
		plan.Calls = 1
	} else {
		plan.Calls = len(plan.Chunks) + 1
	}
	return plan
}

// Summarize produces a summary of the request's messages.
// An empty message list yields NoMessagesSummary without calling the model.
// A completion error aborts the run and is returned as is.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return NoMessagesSummary, nil
	}

	report := s.reporter(req.Progress)
	label := roomLabel(req.RoomLabel)
	plan := s.Plan(req.Messages)

	if plan.SinglePass {
		report(1, 1, "Processing full conversation")
		return s.generate(ctx, summaryPrompt(label, req.Messages))
	}

	n := len(plan.Chunks)
	total := n + 1
	parts := make([]partResult, 0, n)
	for i, chunk := range plan.Chunks {
		part := i + 1
		report(part, total, fmt.Sprintf("Summarizing part %d of %d", part, n))
		text, err := s.generate(ctx, chunkSummaryPrompt(label, part, n, chunk.Messages))
		if err != nil {
			return "", err
		}
		parts = append(parts, partResult{Part: part, Text: text})
	}

	report(total, total, "Combining part summaries")
	return s.generate(ctx, synthesisPrompt(label, parts))
}

// Answer answers req.Question from the request's messages.
// When no part of the conversation is relevant the InsufficientInformation
// template is returned and no synthesis request is made.
func (s *Summarizer) Answer(ctx context.Context, req Request) (string, error) {
	label := roomLabel(req.RoomLabel)
	if len(req.Messages) == 0 {
		return InsufficientInformation(req.Question, label), nil
	}

	report := s.reporter(req.Progress)
	plan := s.Plan(req.Messages)

	if plan.SinglePass {
		report(1, 1, "Processing full conversation")
		return s.generate(ctx, answerPrompt(label, req.Question, req.Messages))
	}

	n := len(plan.Chunks)
	total := n + 1
	var relevant []partResult
	for i, chunk := range plan.Chunks {
		part := i + 1
		report(part, total, fmt.Sprintf("Searching part %d of %d", part, n))
		text, err := s.generate(ctx, chunkAnswerPrompt(label, req.Question, part, n, chunk.Messages))
		if err != nil {
			return "", err
		}
		if isIrrelevant(text) {
			continue
		}
		relevant = append(relevant, partResult{Part: part, Text: text})
	}

	if len(relevant) == 0 {
		report(total, total, "No relevant information found")
		return InsufficientInformation(req.Question, label), nil
	}

	report(total, total, "Combining relevant parts")
	return s.generate(ctx, answerSynthesisPrompt(label, req.Question, relevant))
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.completer.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *Summarizer) reporter(override ProgressFunc) ProgressFunc {
	if override != nil {
		return override
	}
	if s.progress != nil {
		return s.progress
	}
	return func(int, int, string) {}
}

func roomLabel(label string) string {
	if label == "" {
		return "Unknown room"
	}
	return label
}
