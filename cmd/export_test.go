package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/webex-summarizer/testutil"
)

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 3)

	tests := []struct {
		name    string
		format  string
		ext     string
		want    string
		wantErr bool
	}{
		{name: "json", format: "json", ext: ".json", want: `"room-1-msg-1"`},
		{name: "jsonl", format: "jsonl", ext: ".jsonl", want: `"content":"Message number 2"`},
		{name: "yaml", format: "yaml", ext: ".yaml", want: "Message number 3"},
		{name: "markdown", format: "md", ext: ".md", want: "# Team Sync"},
		{name: "invalid format", format: "invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "exports")
			_, err := env.run(t, "export", "--file", path, "--format", tt.format, "--out", outDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("export error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			base := strings.TrimSuffix(filepath.Base(path), ".json")
			data := testutil.ReadFile(t, filepath.Join(outDir, base+tt.ext))
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("exported %s = %q, want it to contain %q", tt.format, data, tt.want)
			}
		})
	}
}

func TestExportAll(t *testing.T) {
	env := newTestEnv(t, nil)
	saveFixtureTitled(t, env, "room-1", "Team Sync", 2)
	saveFixtureTitled(t, env, "room-2", "Design Review", 2)

	outDir := t.TempDir()
	out, err := env.run(t, "export", "--all", "--format", "md", "--out", outDir)
	if err != nil {
		t.Fatalf("export --all error = %v", err)
	}
	if !strings.Contains(out, "2 conversation(s) exported") {
		t.Errorf("export output = %q", out)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("exported %d file(s), want 2", len(entries))
	}
}

func TestExportRequiresSource(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.run(t, "export", "--out", t.TempDir()); err == nil {
		t.Error("export without --file or --all should fail")
	}
}
