package internal

import (
	"fmt"
	"time"
)

// testBaseTime is the creation time of the first generated test message
var testBaseTime = time.Date(2025, time.May, 26, 9, 0, 0, 0, time.UTC)

// CreateTestConversation creates a conversation with sample messages one minute apart
func CreateTestConversation(roomID, title string, count int) *Conversation {
	return &Conversation{
		Room: Room{
			ID:    roomID,
			Title: title,
			Type:  "group",
		},
		Messages:     CreateTestMessages(roomID, count),
		DownloadDate: testBaseTime.Add(24 * time.Hour),
	}
}

// CreateTestMessages creates count messages alternating between two senders
func CreateTestMessages(roomID string, count int) []Message {
	senders := []string{"alice.smith@example.com", "bob.jones@example.com"}
	messages := make([]Message, count)
	for i := range messages {
		messages[i] = Message{
			ID:          fmt.Sprintf("%s-msg-%d", roomID, i+1),
			RoomID:      roomID,
			PersonEmail: senders[i%len(senders)],
			Text:        fmt.Sprintf("Message number %d", i+1),
			Created:     testBaseTime.Add(time.Duration(i) * time.Minute),
		}
	}
	return messages
}
