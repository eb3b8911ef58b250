package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iksnae/webex-summarizer/internal"
)

// FakeWebex serves a minimal Webex REST API backed by in-memory rooms
type FakeWebex struct {
	*httptest.Server
	Token    string
	PageSize int

	mu       sync.Mutex
	rooms    []internal.Room
	messages map[string][]internal.Message
	requests int
}

// NewFakeWebex starts a server that accepts token and serves the given conversations
func NewFakeWebex(t *testing.T, token string, convs ...*internal.Conversation) *FakeWebex {
	t.Helper()
	f := &FakeWebex{Token: token, PageSize: 2, messages: make(map[string][]internal.Message)}
	for _, c := range convs {
		f.rooms = append(f.rooms, c.Room)
		f.messages[c.Room.ID] = c.Messages
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// Requests returns how many requests the server has answered
func (f *FakeWebex) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *FakeWebex) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+f.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "The request requires a valid access token set in the Authorization request header."})
		return
	}

	switch {
	case r.URL.Path == "/people/me":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": "me", "displayName": "Test User", "emails": []string{"test.user@example.com"},
		})
	case r.URL.Path == "/rooms":
		items := make([]map[string]interface{}, 0, len(f.rooms))
		for _, room := range f.rooms {
			items = append(items, roomJSON(room))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
	case strings.HasPrefix(r.URL.Path, "/rooms/"):
		id := strings.TrimPrefix(r.URL.Path, "/rooms/")
		for _, room := range f.rooms {
			if room.ID == id {
				writeJSON(w, http.StatusOK, roomJSON(room))
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Room not found"})
	case r.URL.Path == "/messages":
		f.serveMessages(w, r)
	default:
		http.NotFound(w, r)
	}
}

// serveMessages pages newest first, PageSize at a time, with a Link header
func (f *FakeWebex) serveMessages(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	msgs := internal.SortChronological(f.messages[roomID])
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	var items []map[string]interface{}
	for i := len(msgs) - 1 - offset; i >= 0 && len(items) < f.PageSize; i-- {
		m := msgs[i]
		items = append(items, map[string]interface{}{
			"id": m.ID, "roomId": roomID, "personEmail": m.PersonEmail,
			"text": m.Text, "created": m.Created.UTC().Format(time.RFC3339Nano),
		})
	}

	if next := offset + len(items); next < len(msgs) {
		w.Header().Set("Link", fmt.Sprintf(`<%s/messages?roomId=%s&offset=%d>; rel="next"`, f.URL, roomID, next))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func roomJSON(room internal.Room) map[string]interface{} {
	return map[string]interface{}{
		"id": room.ID, "title": room.Title, "type": room.Type,
		"lastActivity": room.LastActivity.UTC().Format(time.RFC3339Nano),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// FakeCompletions serves an OpenAI-compatible chat completions endpoint.
// reply receives the user prompt and returns the model text.
type FakeCompletions struct {
	*httptest.Server

	mu      sync.Mutex
	prompts []string
}

// NewFakeCompletions starts the server
func NewFakeCompletions(t *testing.T, reply func(prompt string) string) *FakeCompletions {
	t.Helper()
	f := &FakeCompletions{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]string{"message": err.Error()}})
			return
		}

		prompt := ""
		if n := len(req.Messages); n > 0 {
			prompt = req.Messages[n-1].Content
		}
		f.mu.Lock()
		f.prompts = append(f.prompts, prompt)
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply(prompt)}},
			},
		})
	}))
	t.Cleanup(f.Close)
	return f
}

// Prompts returns the prompts received so far
func (f *FakeCompletions) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
