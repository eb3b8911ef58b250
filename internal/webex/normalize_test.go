package webex

import (
	"testing"
)

func TestNormalizeMessages(t *testing.T) {
	n := NewNormalizer()
	raw := []apiMessage{
		{ID: "1", Text: "  hello  ", Created: "2025-05-26T09:00:00.000Z"},
		{ID: "2", Markdown: "**bold**", Created: "2025-05-26T09:01:00.000Z"},
		{ID: "3", Files: []string{"https://files/1"}},
		{ID: "4", Files: []string{"https://files/1", "https://files/2"}},
		{ID: "5"},
		{ID: "6", Text: "bad time", Created: "yesterday"},
	}

	got := n.NormalizeMessages(raw)
	want := []string{"hello", "**bold**", "[shared a file]", "[shared files]", "bad time"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeMessages() returned %d messages, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("message %d text = %q, want %q", i, got[i].Text, w)
		}
	}
	if got[0].Created.IsZero() {
		t.Error("message 0 has zero Created")
	}
	if !got[4].Created.IsZero() {
		t.Errorf("message with bad timestamp Created = %v, want zero", got[4].Created)
	}
}

func TestNormalizeRoom(t *testing.T) {
	room := NewNormalizer().NormalizeRoom(apiRoom{ID: "r", Title: " Standup ", Type: "group", IsLocked: true})
	if room.Title != "Standup" || room.Type != "group" || !room.IsLocked {
		t.Errorf("NormalizeRoom() = %+v", room)
	}
}
