package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/webex-summarizer/internal"
)

const markdownTimeLayout = "2006-01-02 15:04"

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export writes a header, the summary when present and the messages
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", conv.Title())

	_, _ = fmt.Fprintf(w, "**Room ID:** %s  \n", conv.Room.ID)
	if !conv.DownloadDate.IsZero() {
		_, _ = fmt.Fprintf(w, "**Downloaded:** %s  \n", conv.DownloadDate.Format(markdownTimeLayout))
	}
	if conv.DateFrom != "" || conv.DateTo != "" {
		_, _ = fmt.Fprintf(w, "**Range:** %s to %s  \n", orDash(conv.DateFrom), orDash(conv.DateTo))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	if conv.Summary != "" {
		_, _ = fmt.Fprintf(w, "## Summary\n\n%s\n\n", strings.TrimSpace(conv.Summary))
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	messages := internal.SortChronological(conv.Messages)
	for i, msg := range messages {
		timestamp := ""
		if !msg.Created.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Created.Format(markdownTimeLayout))
		}

		content := escapeMarkdown(msg.Text)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", internal.FormatSender(msg.PersonEmail), timestamp, content)

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
