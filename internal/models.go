package internal

import (
	"sort"
	"time"
)

// Room represents a Webex space
type Room struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Type         string    `json:"type,omitempty" yaml:"type,omitempty"` // "group" or "direct"
	IsLocked     bool      `json:"isLocked,omitempty" yaml:"is_locked,omitempty"`
	LastActivity time.Time `json:"lastActivity,omitempty" yaml:"last_activity,omitempty"`
	Created      time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

// Message represents a single message posted to a room
type Message struct {
	ID          string    `json:"id" yaml:"id"`
	RoomID      string    `json:"roomId,omitempty" yaml:"room_id,omitempty"`
	PersonEmail string    `json:"personEmail,omitempty" yaml:"person_email,omitempty"`
	Text        string    `json:"text,omitempty" yaml:"text,omitempty"`
	Created     time.Time `json:"created" yaml:"created"`
}

// Conversation is a downloaded room together with its messages
type Conversation struct {
	Room         Room      `json:"room" yaml:"room"`
	Messages     []Message `json:"messages" yaml:"messages"`
	DownloadDate time.Time `json:"downloadDate" yaml:"download_date"`
	Summary      string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	DateFrom     string    `json:"dateFrom,omitempty" yaml:"date_from,omitempty"`
	DateTo       string    `json:"dateTo,omitempty" yaml:"date_to,omitempty"`
}

// Title returns the room title, falling back to the room ID
func (c *Conversation) Title() string {
	if c.Room.Title != "" {
		return c.Room.Title
	}
	return c.Room.ID
}

// FilterByDate returns the messages created within [from, to].
// A zero bound is open; to is inclusive of the whole day when it has no time component.
func FilterByDate(messages []Message, from, to time.Time) []Message {
	if from.IsZero() && to.IsZero() {
		return messages
	}

	end := to
	if !to.IsZero() && to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
		end = to.Add(24*time.Hour - time.Nanosecond)
	}

	var filtered []Message
	for _, msg := range messages {
		if !from.IsZero() && msg.Created.Before(from) {
			continue
		}
		if !end.IsZero() && msg.Created.After(end) {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

// SortChronological returns a copy of messages ordered oldest first.
// Messages with equal timestamps keep their relative order.
func SortChronological(messages []Message) []Message {
	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.Before(sorted[j].Created)
	})
	return sorted
}
