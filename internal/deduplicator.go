package internal

import (
	"crypto/sha256"
	"encoding/hex"
)

// Deduplicator removes messages that were returned more than once,
// which happens when new messages arrive while pages are being fetched
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate drops repeated messages, keeping the first occurrence and the original order
func (d *Deduplicator) Deduplicate(messages []Message) []Message {
	seen := make(map[string]bool)
	unique := make([]Message, 0, len(messages))

	for _, msg := range messages {
		key := d.messageKey(msg)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, msg)
	}

	return unique
}

// messageKey uses the message ID when present and a content hash otherwise
func (d *Deduplicator) messageKey(msg Message) string {
	if msg.ID != "" {
		return "id:" + msg.ID
	}

	h := sha256.New()
	h.Write([]byte(msg.PersonEmail))
	h.Write([]byte(msg.Text))
	h.Write([]byte(msg.Created.UTC().Format("2006-01-02T15:04:05.000Z07:00")))

	return "hash:" + hex.EncodeToString(h.Sum(nil))
}
