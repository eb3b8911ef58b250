package cmd

import (
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "version flag",
			args: []string{"--version"},
			want: "commit:",
		},
		{
			name: "help flag",
			args: []string{"--help"},
			want: "webex-summarizer",
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"config", "list-rooms", "list-messages", "download", "list-files",
		"summarize", "search", "list-models", "tokens", "export", "healthcheck",
	}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t, nil)
	path := env.dir + "/new/config.yaml"

	if _, err := runCommand(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--config", path); err == nil {
		t.Error("config init over an existing file should fail without --force")
	}
	if _, err := runCommand(t, "config", "init", "--force", "--config", path); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	out, err := env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if strings.Contains(out, testToken) {
		t.Error("config show printed the token unmasked")
	}
	if !strings.Contains(out, "****7890") {
		t.Errorf("config show output = %q, want masked token", out)
	}
}
