package cmd

import (
	"strings"
	"testing"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/internal/summarizer"
	"github.com/iksnae/webex-summarizer/testutil"
)

func TestSummarizeSinglePass(t *testing.T) {
	env := newTestEnv(t, func(prompt string) string {
		return "## Overview\nThe team counted messages."
	})
	_, path := saveFixture(t, env, 4)

	out, err := env.run(t, "summarize", "--file", path)
	if err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	if !strings.Contains(out, "The team counted messages.") {
		t.Errorf("summarize output = %q", out)
	}
	if !strings.Contains(out, "Summary saved to: "+path) {
		t.Errorf("summarize output = %q, want the conversation file path", out)
	}

	prompts := env.llm.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("completion requests = %d, want 1", len(prompts))
	}
	if !strings.Contains(prompts[0], "Message number 4") {
		t.Errorf("prompt does not contain the conversation: %q", prompts[0])
	}

	saved := loadSaved(t, env, path)
	if saved.Summary != "## Overview\nThe team counted messages." {
		t.Errorf("stored summary = %q", saved.Summary)
	}
}

func TestSummarizeInParts(t *testing.T) {
	env := newTestEnv(t, func(prompt string) string { return "part summary" })
	env.cfg.Summarizer.MaxContextTokens = 60
	env.cfg.Summarizer.SafetyBufferTokens = 10
	env.config = testutil.WriteConfigFixture(t, env.dir, env.cfg)

	conv, path := saveFixture(t, env, 6)
	plan := summarizer.PlanFor(conv.Messages, summarizerConfig(env.cfg))
	if plan.SinglePass {
		t.Fatalf("fixture fits in one request; plan = %+v", plan)
	}

	if _, err := env.run(t, "summarize", "--file", path); err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	if got := len(env.llm.Prompts()); got != plan.Calls {
		t.Errorf("completion requests = %d, want %d", got, plan.Calls)
	}
}

func TestSummarizeEmptyRange(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 3)

	out, err := env.run(t, "summarize", "--file", path, "--from", "2020-01-01", "--to", "2020-01-02")
	if err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	if !strings.Contains(out, "No messages found to summarize") {
		t.Errorf("summarize output = %q", out)
	}
	if n := len(env.llm.Prompts()); n != 0 {
		t.Errorf("completion requests = %d, want 0", n)
	}

	saved := loadSaved(t, env, path)
	if len(saved.Messages) != 3 {
		t.Errorf("stored messages = %d, want all 3 kept", len(saved.Messages))
	}
	if saved.DateFrom != "2020-01-01" || !strings.Contains(saved.Summary, "date range") {
		t.Errorf("stored conversation = from %q, summary %q", saved.DateFrom, saved.Summary)
	}
}

func TestSummarizeListSummaries(t *testing.T) {
	env := newTestEnv(t, func(string) string { return "summary" })
	_, path := saveFixture(t, env, 2)

	out, err := env.run(t, "summarize", "--list-summaries")
	if err != nil {
		t.Fatalf("summarize --list-summaries error = %v", err)
	}
	if !strings.Contains(out, "No summarized conversations") {
		t.Errorf("output = %q", out)
	}

	if _, err := env.run(t, "summarize", "--file", path); err != nil {
		t.Fatalf("summarize error = %v", err)
	}
	out, err = env.run(t, "summarize", "--list-summaries")
	if err != nil {
		t.Fatalf("summarize --list-summaries error = %v", err)
	}
	if !strings.Contains(out, "1 summarized conversation(s)") || !strings.Contains(out, "gpt-4o") {
		t.Errorf("output = %q", out)
	}
}

func TestSummarizeRequiresSource(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.run(t, "summarize"); err != errNoSource {
		t.Errorf("summarize error = %v, want errNoSource", err)
	}
}

func loadSaved(t *testing.T, env *testEnv, path string) *internal.Conversation {
	t.Helper()
	storage, err := internal.NewConversationStorage(env.storage)
	if err != nil {
		t.Fatal(err)
	}
	conv, err := storage.LoadConversation(path)
	if err != nil {
		t.Fatal(err)
	}
	return conv
}
