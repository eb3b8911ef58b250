package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iksnae/webex-summarizer/internal"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format   string
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{format: "jsonl", wantType: "*export.JSONLExporter", wantExt: "jsonl"},
		{format: "md", wantType: "*export.MarkdownExporter", wantExt: "md"},
		{format: "markdown", wantType: "*export.MarkdownExporter", wantExt: "md"},
		{format: "yaml", wantType: "*export.YAMLExporter", wantExt: "yaml"},
		{format: "yml", wantType: "*export.YAMLExporter", wantExt: "yaml"},
		{format: "JSON", wantType: "*export.JSONExporter", wantExt: "json"},
		{format: "xml", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if tt.wantErr {
				if exporter != nil {
					t.Errorf("NewExporter(%q) = %T, want nil", tt.format, exporter)
				}
				return
			}
			if got := fmt.Sprintf("%T", exporter); got != tt.wantType {
				t.Errorf("NewExporter(%q) = %s, want %s", tt.format, got, tt.wantType)
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %v, want %v", got, tt.wantExt)
			}
		})
	}
}

func TestFormatsExportConversation(t *testing.T) {
	conv := internal.CreateTestConversation("room-1", "Team Sync", 2)
	for _, format := range Formats {
		exporter, err := NewExporter(format)
		if err != nil {
			t.Fatalf("NewExporter(%q) error = %v", format, err)
		}
		var buf bytes.Buffer
		if err := exporter.Export(conv, &buf); err != nil {
			t.Errorf("%s Export() error = %v", format, err)
		}
		if !bytes.Contains(buf.Bytes(), []byte("Message number 2")) {
			t.Errorf("%s export lacks the last message: %q", format, buf.String())
		}
	}
}
