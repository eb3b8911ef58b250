package testutil

import (
	"testing"

	"github.com/iksnae/webex-summarizer/internal"
)

// SaveConversationFixture stores a generated conversation in dir and returns it with its path
func SaveConversationFixture(t *testing.T, dir, roomID, title string, count int) (*internal.Conversation, string) {
	t.Helper()
	storage, err := internal.NewConversationStorage(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	conv := internal.CreateTestConversation(roomID, title, count)
	path, err := storage.SaveConversation(conv)
	if err != nil {
		t.Fatalf("Failed to save conversation fixture: %v", err)
	}
	return conv, path
}

// WriteConfigFixture writes cfg as YAML into dir and returns the path
func WriteConfigFixture(t *testing.T, dir string, cfg *internal.Config) string {
	t.Helper()
	path := dir + "/config.yaml"
	if err := internal.SaveConfig(path, cfg); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}
	return path
}
