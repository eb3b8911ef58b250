package internal

import (
	"testing"
	"time"
)

func TestConversation_Title(t *testing.T) {
	conv := &Conversation{Room: Room{ID: "room1"}}
	if got := conv.Title(); got != "room1" {
		t.Errorf("Title() = %v, want room1", got)
	}

	conv.Room.Title = "Design Review"
	if got := conv.Title(); got != "Design Review" {
		t.Errorf("Title() = %v, want Design Review", got)
	}
}

func TestFilterByDate(t *testing.T) {
	day := func(d, h int) time.Time {
		return time.Date(2025, time.May, d, h, 0, 0, 0, time.UTC)
	}
	messages := []Message{
		{ID: "1", Created: day(24, 9)},
		{ID: "2", Created: day(25, 9)},
		{ID: "3", Created: day(26, 23)},
		{ID: "4", Created: day(27, 1)},
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want []string
	}{
		{name: "no bounds", want: []string{"1", "2", "3", "4"}},
		{name: "from only", from: day(25, 0), want: []string{"2", "3", "4"}},
		{name: "to only includes whole day", to: day(26, 0), want: []string{"1", "2", "3"}},
		{name: "range", from: day(25, 0), to: day(26, 0), want: []string{"2", "3"}},
		{name: "empty range", from: day(28, 0), to: day(29, 0), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByDate(messages, tt.from, tt.to)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterByDate() returned %d messages, want %d", len(got), len(tt.want))
			}
			for i, msg := range got {
				if msg.ID != tt.want[i] {
					t.Errorf("FilterByDate()[%d] = %v, want %v", i, msg.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSortChronological(t *testing.T) {
	base := time.Date(2025, time.May, 26, 10, 0, 0, 0, time.UTC)
	messages := []Message{
		{ID: "c", Created: base.Add(2 * time.Minute)},
		{ID: "b", Created: base.Add(time.Minute)},
		{ID: "a", Created: base},
		{ID: "a2", Created: base},
	}

	got := SortChronological(messages)
	want := []string{"a", "a2", "b", "c"}
	for i, msg := range got {
		if msg.ID != want[i] {
			t.Errorf("SortChronological()[%d] = %v, want %v", i, msg.ID, want[i])
		}
	}

	if messages[0].ID != "c" {
		t.Error("SortChronological() modified its input")
	}
}
