package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	room_id       TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	path          TEXT NOT NULL,
	message_count INTEGER NOT NULL,
	downloaded_at TEXT NOT NULL,
	has_summary   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS summaries (
	id          TEXT PRIMARY KEY,
	room_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	question    TEXT NOT NULL DEFAULT '',
	model       TEXT NOT NULL DEFAULT '',
	chunk_count INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_room ON summaries(room_id, created_at);
`

// Summary kinds recorded in the catalog
const (
	SummaryKindSummary = "summary"
	SummaryKindAnswer  = "answer"
)

// CatalogEntry is the catalog row of a stored conversation
type CatalogEntry struct {
	RoomID       string
	Title        string
	Path         string
	MessageCount int
	DownloadedAt time.Time
	HasSummary   bool
}

// SummaryRecord is one summarize or answer run
type SummaryRecord struct {
	ID         string
	RoomID     string
	Kind       string
	Question   string
	Model      string
	ChunkCount int
	CreatedAt  time.Time
}

// Catalog indexes stored conversations and summary runs in SQLite
type Catalog struct {
	db *sql.DB
}

// OpenDatabase opens (creating if needed) a SQLite database
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// OpenCatalog opens the catalog at path and creates its tables
func OpenCatalog(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StorageError{Path: path, Op: "mkdir", Err: err}
	}

	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// RecordConversation inserts or replaces the entry for a room
func (c *Catalog) RecordConversation(entry CatalogEntry) error {
	_, err := c.db.Exec(`
		INSERT INTO conversations (room_id, title, path, message_count, downloaded_at, has_summary)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			title = excluded.title,
			path = excluded.path,
			message_count = excluded.message_count,
			downloaded_at = excluded.downloaded_at,
			has_summary = excluded.has_summary`,
		entry.RoomID, entry.Title, entry.Path, entry.MessageCount,
		formatDBTime(entry.DownloadedAt), boolToInt(entry.HasSummary))
	if err != nil {
		return fmt.Errorf("failed to record conversation %s: %w", entry.RoomID, err)
	}
	return nil
}

// RecordSummary stores a summary run and returns its generated ID.
// Recording a summary marks the room's conversation as summarized.
func (c *Catalog) RecordSummary(rec SummaryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := c.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO summaries (id, room_id, kind, question, model, chunk_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RoomID, rec.Kind, rec.Question, rec.Model, rec.ChunkCount, formatDBTime(rec.CreatedAt)); err != nil {
		return "", fmt.Errorf("failed to record summary: %w", err)
	}

	if rec.Kind == SummaryKindSummary {
		if _, err := tx.Exec(`UPDATE conversations SET has_summary = 1 WHERE room_id = ?`, rec.RoomID); err != nil {
			return "", fmt.Errorf("failed to mark conversation summarized: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit summary: %w", err)
	}
	return rec.ID, nil
}

// Conversations returns all entries, most recently downloaded first
func (c *Catalog) Conversations() ([]CatalogEntry, error) {
	rows, err := c.db.Query(`
		SELECT room_id, title, path, message_count, downloaded_at, has_summary
		FROM conversations ORDER BY downloaded_at DESC, title`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []CatalogEntry
	for rows.Next() {
		var entry CatalogEntry
		var downloaded string
		var hasSummary int
		if err := rows.Scan(&entry.RoomID, &entry.Title, &entry.Path, &entry.MessageCount, &downloaded, &hasSummary); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entry.DownloadedAt = parseDBTime(downloaded)
		entry.HasSummary = hasSummary != 0
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

// FindFile returns the stored file of a room, or "" when the room is not cataloged
func (c *Catalog) FindFile(roomID string) (string, error) {
	var path string
	err := c.db.QueryRow(`SELECT path FROM conversations WHERE room_id = ?`, roomID).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	return path, nil
}

// Summaries returns summary runs, newest first. An empty roomID returns all rooms.
func (c *Catalog) Summaries(roomID string) ([]SummaryRecord, error) {
	query := `SELECT id, room_id, kind, question, model, chunk_count, created_at FROM summaries`
	var args []interface{}
	if roomID != "" {
		query += ` WHERE room_id = ?`
		args = append(args, roomID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []SummaryRecord
	for rows.Next() {
		var rec SummaryRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.RoomID, &rec.Kind, &rec.Question, &rec.Model, &rec.ChunkCount, &created); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		rec.CreatedAt = parseDBTime(created)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return records, nil
}

// Rebuild catalogs every readable conversation file in storage and returns how many were recorded.
// When a room has several files the newest one wins.
func (c *Catalog) Rebuild(storage *ConversationStorage) (int, error) {
	files, err := storage.ListConversationFiles()
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	count := 0
	for _, f := range files {
		conv, err := storage.LoadConversation(f.Path)
		if err != nil {
			LogWarn("Skipping %s: %v", f.Name, err)
			continue
		}
		if seen[conv.Room.ID] {
			continue
		}
		seen[conv.Room.ID] = true

		if err := c.RecordConversation(EntryFor(conv, f.Path)); err != nil {
			return count, err
		}
		count++
	}

	LogDebug("Catalog rebuilt with %d conversations", count)
	return count, nil
}

// EntryFor builds the catalog entry of a conversation stored at path
func EntryFor(conv *Conversation, path string) CatalogEntry {
	return CatalogEntry{
		RoomID:       conv.Room.ID,
		Title:        conv.Title(),
		Path:         path,
		MessageCount: len(conv.Messages),
		DownloadedAt: conv.DownloadDate,
		HasSummary:   conv.Summary != "",
	}
}

// dbTimeLayout has a fixed width so stored times sort as strings
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

func parseDBTime(s string) time.Time {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
