package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
)

// JSONLExporter exports conversations in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes one object per message, oldest first
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range internal.SortChronological(conv.Messages) {
		obj := map[string]interface{}{
			"room":    conv.Room.ID,
			"sender":  msg.PersonEmail,
			"content": msg.Text,
		}
		if msg.ID != "" {
			obj["id"] = msg.ID
		}
		if !msg.Created.IsZero() {
			obj["timestamp"] = msg.Created.UTC().Format(time.RFC3339)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
