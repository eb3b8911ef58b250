package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/webex-summarizer/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	conv := internal.CreateTestConversation("room1", "Team Sync", 2)

	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"room:", "title: Team Sync", "person_email: alice.smith@example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("Export() output missing %q:\n%s", want, out)
		}
	}

	var got internal.Conversation
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Export() produced invalid YAML: %v", err)
	}
	if len(got.Messages) != 2 {
		t.Errorf("decoded %d messages, want 2", len(got.Messages))
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("Extension() = %v, want yaml", got)
	}
}
