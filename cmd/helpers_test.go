package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/iksnae/webex-summarizer/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testToken = "test-token-1234567890"

// testEnv is a config file wired to fake Webex and completion servers
type testEnv struct {
	dir     string
	config  string
	storage string
	webex   *testutil.FakeWebex
	llm     *testutil.FakeCompletions
	cfg     *internal.Config
}

func newTestEnv(t *testing.T, reply func(prompt string) string, convs ...*internal.Conversation) *testEnv {
	t.Helper()
	for _, key := range []string{
		"WEBEX_TOKEN", "WEBEX_BASE_URL", "WEBEX_SUMMARIZER_STORAGE",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "LLM_MAX_RETRIES",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		storage: filepath.Join(dir, "conversations"),
		webex:   testutil.NewFakeWebex(t, testToken, convs...),
	}
	if reply == nil {
		reply = func(string) string { return "ok" }
	}
	env.llm = testutil.NewFakeCompletions(t, reply)

	cfg := internal.DefaultConfig()
	cfg.Webex.Token = testToken
	cfg.Webex.BaseURL = env.webex.URL
	cfg.Webex.RequestsPerSecond = 1000
	cfg.Webex.Burst = 1000
	cfg.Webex.MaxRetries = 0
	cfg.Storage.Directory = env.storage
	cfg.LLM = internal.LLMConfig{
		Provider:   "openai",
		Model:      "gpt-4o",
		BaseURL:    env.llm.URL,
		MaxTokens:  1000,
		Timeout:    10 * time.Second,
		MaxRetries: 0,
	}
	env.cfg = cfg
	env.config = testutil.WriteConfigFixture(t, dir, cfg)
	return env
}

// run executes the root command with the env's config file
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommand(t, append(args, "--config", e.config)...)
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
