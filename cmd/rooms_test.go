package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/iksnae/webex-summarizer/internal"
)

func TestListRooms(t *testing.T) {
	sync := internal.CreateTestConversation("room-1", "Team Sync", 3)
	chat := internal.CreateTestConversation("room-2", "Alice", 2)
	chat.Room.Type = "direct"
	env := newTestEnv(t, nil, sync, chat)

	out, err := env.run(t, "list-rooms")
	if err != nil {
		t.Fatalf("list-rooms error = %v", err)
	}
	if !strings.Contains(out, "Found 2 room(s)") || !strings.Contains(out, "Team Sync") {
		t.Errorf("list-rooms output = %q", out)
	}
	if _, err := os.Stat(env.cfg.RoomCachePath()); err != nil {
		t.Errorf("room cache not written: %v", err)
	}

	// served from the cache
	before := env.webex.Requests()
	out, err = env.run(t, "list-rooms", "--type", "direct")
	if err != nil {
		t.Fatalf("list-rooms --type error = %v", err)
	}
	if env.webex.Requests() != before {
		t.Errorf("cached listing made %d request(s)", env.webex.Requests()-before)
	}
	if !strings.Contains(out, "Found 1 room(s)") || strings.Contains(out, "Team Sync") {
		t.Errorf("list-rooms --type direct output = %q", out)
	}

	out, err = env.run(t, "list-rooms", "--id", "room-1")
	if err != nil {
		t.Fatalf("list-rooms --id error = %v", err)
	}
	if !strings.Contains(out, "room-1") || !strings.Contains(out, "group") {
		t.Errorf("list-rooms --id output = %q", out)
	}
}

func TestListRoomsInvalidType(t *testing.T) {
	env := newTestEnv(t, nil)
	if _, err := env.run(t, "list-rooms", "--type", "team"); err == nil {
		t.Error("list-rooms --type team should fail")
	}
}

func TestDownloadAndListFiles(t *testing.T) {
	conv := internal.CreateTestConversation("room-1", "Team Sync", 5)
	env := newTestEnv(t, nil, conv)

	if _, err := env.run(t, "download"); err == nil {
		t.Error("download without --room should fail")
	}

	out, err := env.run(t, "download", "--room", "room-1")
	if err != nil {
		t.Fatalf("download error = %v", err)
	}
	if !strings.Contains(out, "Downloaded 5 message(s)") {
		t.Errorf("download output = %q", out)
	}

	storage, err := internal.NewConversationStorage(env.storage)
	if err != nil {
		t.Fatal(err)
	}
	files, err := storage.ListConversationFiles()
	if err != nil || len(files) != 1 {
		t.Fatalf("ListConversationFiles() = %v, %v; want one file", files, err)
	}
	saved, err := storage.LoadConversation(files[0].Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Messages) != 5 || saved.Messages[0].ID != "room-1-msg-1" {
		t.Errorf("saved messages = %+v", saved.Messages)
	}

	out, err = env.run(t, "list-files")
	if err != nil {
		t.Fatalf("list-files error = %v", err)
	}
	if !strings.Contains(out, "Found 1 saved conversation(s)") {
		t.Errorf("list-files output = %q", out)
	}
}

func TestListMessages(t *testing.T) {
	env := newTestEnv(t, nil)
	_, path := saveFixture(t, env, 4)

	out, err := env.run(t, "list-messages", "--file", path, "--limit", "2", "--page", "2")
	if err != nil {
		t.Fatalf("list-messages error = %v", err)
	}
	if !strings.Contains(out, "Message number 3") || strings.Contains(out, "Message number 1\n") {
		t.Errorf("list-messages page 2 output = %q", out)
	}
	if !strings.Contains(out, "Page 2 of 2") {
		t.Errorf("list-messages output = %q, want page footer", out)
	}

	if _, err := env.run(t, "list-messages"); err == nil {
		t.Error("list-messages without a source should fail")
	}
}

func saveFixture(t *testing.T, env *testEnv, count int) (*internal.Conversation, string) {
	t.Helper()
	return saveFixtureTitled(t, env, "room-1", "Team Sync", count)
}

func saveFixtureTitled(t *testing.T, env *testEnv, roomID, title string, count int) (*internal.Conversation, string) {
	t.Helper()
	conv := internal.CreateTestConversation(roomID, title, count)
	storage, err := internal.NewConversationStorage(env.storage)
	if err != nil {
		t.Fatal(err)
	}
	path, err := storage.SaveConversation(conv)
	if err != nil {
		t.Fatal(err)
	}
	return conv, path
}
