package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/webex-summarizer/internal"
)

// Exporter writes a conversation in one file format
type Exporter interface {
	Export(conv *internal.Conversation, w io.Writer) error
	Extension() string
}

// Formats lists the supported export formats
var Formats = []string{"json", "jsonl", "yaml", "md"}

// NewExporter returns the exporter for format. Matching ignores case; "markdown" and "yml" are aliases.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}
