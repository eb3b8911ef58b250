package internal

import (
	"strings"
	"time"
)

// SearchMessages returns messages whose text contains query (case-insensitive)
// and that fall within the optional [from, to] range. Messages without text never match.
func SearchMessages(messages []Message, query string, from, to time.Time) []Message {
	needle := strings.ToLower(query)
	var matches []Message
	for _, msg := range FilterByDate(messages, from, to) {
		if msg.Text == "" {
			continue
		}
		if strings.Contains(strings.ToLower(msg.Text), needle) {
			matches = append(matches, msg)
		}
	}
	LogDebug("Found %d messages matching query: %q", len(matches), query)
	return matches
}

// MessageContext returns up to n messages on each side of target, in conversation order.
// If target is not part of messages only target is returned.
func MessageContext(messages []Message, target Message, n int) []Message {
	index := -1
	for i, msg := range messages {
		if msg.ID == target.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return []Message{target}
	}

	start := index - n
	if start < 0 {
		start = 0
	}
	end := index + n + 1
	if end > len(messages) {
		end = len(messages)
	}

	context := make([]Message, end-start)
	copy(context, messages[start:end])
	return context
}

// HighlightTerms wraps every case-insensitive occurrence of query in text with mark,
// keeping the original casing
func HighlightTerms(text, query string, mark func(string) string) string {
	if text == "" || query == "" {
		return text
	}

	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// Case folding can change byte lengths; fall back to no highlighting in that case
	if len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return text
	}

	var sb strings.Builder
	pos := 0
	for {
		i := strings.Index(lowerText[pos:], lowerQuery)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(query)
		sb.WriteString(text[pos:start])
		sb.WriteString(mark(text[start:end]))
		pos = end
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// FormatSender turns "first.last@example.com" into "First Last"
func FormatSender(email string) string {
	if email == "" {
		return "Unknown sender"
	}
	at := strings.Index(email, "@")
	if at < 0 {
		return email
	}

	words := strings.Fields(strings.ReplaceAll(email[:at], ".", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	if len(words) == 0 {
		return email
	}
	return strings.Join(words, " ")
}
