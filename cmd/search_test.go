package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/iksnae/webex-summarizer/testutil"
)

func TestSearchQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 5)

	out, err := env.run(t, "search", "--file", path, "-q", "number 3", "-n", "1")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, `1 message(s) matching "number 3"`) {
		t.Errorf("search output = %q", out)
	}
	for _, want := range []string{"Message number 2", "Message number 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output lacks context message %q", want)
		}
	}
	if strings.Contains(out, "Message number 5") {
		t.Error("search output shows more context than requested")
	}
	if n := len(env.llm.Prompts()); n != 0 {
		t.Errorf("keyword search made %d completion request(s)", n)
	}
}

func TestSearchQuestion(t *testing.T) {
	env := newTestEnv(t, func(prompt string) string { return "Bob sent the last message." })
	_, path := saveFixture(t, env, 4)

	out, err := env.run(t, "search", "--file", path, "-Q", "Who spoke last?")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Bob sent the last message.") {
		t.Errorf("search output = %q", out)
	}
	prompts := env.llm.Prompts()
	if len(prompts) != 1 || !strings.Contains(prompts[0], "Who spoke last?") {
		t.Errorf("prompts = %q", prompts)
	}
}

func TestSearchQuestionNothingRelevant(t *testing.T) {
	env := newTestEnv(t, func(prompt string) string { return summarizer.IrrelevantMarker })
	env.cfg.Summarizer.MaxContextTokens = 60
	env.cfg.Summarizer.SafetyBufferTokens = 10
	env.config = testutil.WriteConfigFixture(t, env.dir, env.cfg)
	conv, path := saveFixture(t, env, 6)
	plan := summarizer.PlanFor(conv.Messages, summarizerConfig(env.cfg))

	out, err := env.run(t, "search", "--file", path, "-Q", "What about the budget?")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "enough information") {
		t.Errorf("search output = %q", out)
	}
	// no combining request when every part is irrelevant
	if got := len(env.llm.Prompts()); got != len(plan.Chunks) {
		t.Errorf("completion requests = %d, want %d", got, len(plan.Chunks))
	}
}

func TestSearchQuestionEmptyRange(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 3)

	out, err := env.run(t, "search", "--file", path, "-Q", "Anything?", "--from", "2020-01-01", "--to", "2020-01-01")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "enough information") {
		t.Errorf("search output = %q", out)
	}
	if n := len(env.llm.Prompts()); n != 0 {
		t.Errorf("completion requests = %d, want 0", n)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 1)
	if _, err := env.run(t, "search", "--file", path); err == nil {
		t.Error("search without --query or --question should fail")
	}
}
