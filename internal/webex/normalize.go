package webex

import (
	"strings"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
)

// apiRoom is a room as returned by /rooms
type apiRoom struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	IsLocked     bool   `json:"isLocked"`
	LastActivity string `json:"lastActivity"`
	Created      string `json:"created"`
}

// apiMessage is a message as returned by /messages
type apiMessage struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	PersonEmail string   `json:"personEmail"`
	Text        string   `json:"text"`
	Markdown    string   `json:"markdown"`
	HTML        string   `json:"html"`
	Files       []string `json:"files"`
	Created     string   `json:"created"`
}

// Person is the authenticated user as returned by /people/me
type Person struct {
	ID          string   `json:"id"`
	Emails      []string `json:"emails"`
	DisplayName string   `json:"displayName"`
	OrgID       string   `json:"orgId"`
}

// Email returns the first address of the person
func (p *Person) Email() string {
	if len(p.Emails) == 0 {
		return ""
	}
	return p.Emails[0]
}

type roomPage struct {
	Items []apiRoom `json:"items"`
}

type messagePage struct {
	Items []apiMessage `json:"items"`
}

// Normalizer converts raw API records to the application's types
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeRoom converts an API room
func (n *Normalizer) NormalizeRoom(r apiRoom) internal.Room {
	return internal.Room{
		ID:           r.ID,
		Title:        strings.TrimSpace(r.Title),
		Type:         r.Type,
		IsLocked:     r.IsLocked,
		LastActivity: parseTimestamp(r.LastActivity),
		Created:      parseTimestamp(r.Created),
	}
}

// NormalizeMessages converts API messages, dropping those that carry no text at all
func (n *Normalizer) NormalizeMessages(raw []apiMessage) []internal.Message {
	messages := make([]internal.Message, 0, len(raw))
	for _, m := range raw {
		text := n.messageText(m)
		if text == "" {
			continue
		}
		messages = append(messages, internal.Message{
			ID:          m.ID,
			RoomID:      m.RoomID,
			PersonEmail: m.PersonEmail,
			Text:        text,
			Created:     parseTimestamp(m.Created),
		})
	}
	return messages
}

// messageText prefers plain text, then markdown, and describes file-only posts
func (n *Normalizer) messageText(m apiMessage) string {
	if t := strings.TrimSpace(m.Text); t != "" {
		return t
	}
	if t := strings.TrimSpace(m.Markdown); t != "" {
		return t
	}
	switch len(m.Files) {
	case 0:
		return ""
	case 1:
		return "[shared a file]"
	default:
		return "[shared files]"
	}
}

// parseTimestamp parses the RFC 3339 times Webex returns; unparseable values become zero
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		internal.LogDebug("Unparseable timestamp %q: %v", s, err)
		return time.Time{}
	}
	return t
}
