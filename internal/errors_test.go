package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/conversations/room.json",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("StorageError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/conversations/room.json") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("unexpected end of JSON input")
	err := &ParseError{
		Source: "conversation",
		Key:    "room_1.json",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("ParseError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "conversation") {
		t.Errorf("ParseError.Error() should contain source, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestConfigError(t *testing.T) {
	originalErr := errors.New("unknown provider")
	err := &ConfigError{
		Field: "llm.provider",
		Err:   originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "config error") {
		t.Errorf("ConfigError.Error() should contain 'config error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "llm.provider") {
		t.Errorf("ConfigError.Error() should contain Field, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ConfigError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/room.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if errorMsg == "" {
		t.Error("ExportError.Error() returned empty string")
	}
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
