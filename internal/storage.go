package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const fileTimestampLayout = "20060102_150405"

// ConversationFile describes a stored conversation on disk
type ConversationFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// ConversationStorage saves and loads conversations as pretty-printed JSON files
type ConversationStorage struct {
	dir string
	now func() time.Time
}

// NewConversationStorage creates the storage directory if needed
func NewConversationStorage(dir string) (*ConversationStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Path: dir, Op: "mkdir", Err: err}
	}
	return &ConversationStorage{dir: dir, now: time.Now}, nil
}

// Dir returns the storage directory
func (s *ConversationStorage) Dir() string {
	return s.dir
}

// FileName builds <title>_<roomID>_<yyyyMMdd_HHmmss>.json for a conversation
func FileName(conv *Conversation, at time.Time) string {
	title := sanitizeFileName(conv.Room.Title)
	if title == "" {
		title = "room"
	}
	return fmt.Sprintf("%s_%s_%s.json", title, conv.Room.ID, at.Format(fileTimestampLayout))
}

// SaveConversation writes conv to a new timestamped file and returns its path
func (s *ConversationStorage) SaveConversation(conv *Conversation) (string, error) {
	path := filepath.Join(s.dir, FileName(conv, s.now()))
	if err := s.write(path, conv); err != nil {
		return "", err
	}
	LogInfo("Conversation saved to: %s", path)
	return path, nil
}

// LoadConversation reads a conversation file
func (s *ConversationStorage) LoadConversation(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, &ParseError{Source: "conversation", Key: path, Err: err}
	}
	return &conv, nil
}

// ListConversationFiles returns the stored conversation files, newest first
func (s *ConversationStorage) ListConversationFiles() ([]ConversationFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Path: s.dir, Op: "read", Err: err}
	}

	var files []ConversationFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ConversationFile{
			Path:    filepath.Join(s.dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name > files[j].Name
		}
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// FindConversationFile returns the newest file holding the given room, or "" if none does
func (s *ConversationStorage) FindConversationFile(roomID string) (string, error) {
	files, err := s.ListConversationFiles()
	if err != nil {
		return "", err
	}

	for _, f := range files {
		// Filenames carry the room ID, so most files are skipped without parsing
		if !strings.Contains(f.Name, roomID) {
			continue
		}
		conv, err := s.LoadConversation(f.Path)
		if err != nil {
			LogWarn("Skipping unreadable conversation file %s: %v", f.Path, err)
			continue
		}
		if conv.Room.ID == roomID {
			return f.Path, nil
		}
	}
	return "", nil
}

// SaveSummary stores summary on conv and rewrites the room's existing file.
// If the room has no file yet the conversation is saved as a new one.
func (s *ConversationStorage) SaveSummary(conv *Conversation, summary string) (string, error) {
	conv.Summary = summary

	path, err := s.FindConversationFile(conv.Room.ID)
	if err != nil {
		return "", err
	}
	if path == "" {
		return s.SaveConversation(conv)
	}

	if err := s.write(path, conv); err != nil {
		return "", err
	}
	LogInfo("Updated conversation with summary: %s", path)
	return path, nil
}

func (s *ConversationStorage) write(path string, conv *Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return &StorageError{Path: path, Op: "marshal", Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// sanitizeFileName replaces characters that are not allowed in file names
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
		`"`, "_", "<", "_", ">", "_", "|", "_",
	)
	return strings.TrimSpace(replacer.Replace(name))
}
