package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewLogger tests logger construction with temp directories
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		baseDir   string
		sessionID string
	}{
		{"valid directory and session ID", t.TempDir(), "test-session-123"},
		{"creates directories if not exist", filepath.Join(t.TempDir(), "nested", "path"), "session-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.baseDir, tt.sessionID)
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			defer logger.Close()

			if logger.SessionID() != tt.sessionID {
				t.Errorf("SessionID() = %v, want %v", logger.SessionID(), tt.sessionID)
			}
			if logger.minLevel != LevelInfo {
				t.Errorf("minLevel = %v, want %v", logger.minLevel, LevelInfo)
			}

			sessionFile := filepath.Join(tt.baseDir, "sessions", tt.sessionID+".jsonl")
			if _, err := os.Stat(sessionFile); os.IsNotExist(err) {
				t.Errorf("session log file not created")
			}
			errorFile := filepath.Join(tt.baseDir, "errors.jsonl")
			if _, err := os.Stat(errorFile); os.IsNotExist(err) {
				t.Errorf("errors.jsonl not created")
			}
		})
	}
}

// TestNewLoggerInvalidDirectory tests error handling for invalid directories
func TestNewLoggerInvalidDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "file-not-dir")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := NewLogger(filePath, "test-session"); err == nil {
		t.Fatal("expected error when baseDir is a file, got nil")
	}
}

func TestLogEvent(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	event := Event{
		Level:     LevelInfo,
		Category:  CategoryWidget,
		EventType: "widget_result",
		Message:   "input accepted",
		Details:   map[string]any{"events": 3},
	}
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}

	events, err := ReadRecentEvents(filepath.Join(baseDir, "sessions", "test-session.jsonl"), 1)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	logged := events[0]
	if logged.Category != CategoryWidget || logged.EventType != "widget_result" {
		t.Errorf("logged = %+v", logged)
	}
	if logged.SessionID != "test-session" {
		t.Errorf("SessionID = %q, want test-session", logged.SessionID)
	}
	if logged.Timestamp.IsZero() {
		t.Error("Timestamp was not set")
	}
	if logged.Details["events"] != float64(3) {
		t.Errorf("Details = %v", logged.Details)
	}
}

func TestLogKeepsExplicitTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "s")

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := logger.Log(Event{Timestamp: ts, Level: LevelWarn, Category: CategoryRender}); err != nil {
		t.Fatalf("Log() failed: %v", err)
	}

	var got Event
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestErrorsGoToErrorLog(t *testing.T) {
	baseDir := t.TempDir()
	logger, err := NewLogger(baseDir, "test-session")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Info(CategoryCoordinator, "task_registered", "", nil)
	logger.Error(CategoryCoordinator, "command_failed", "boom", map[string]any{"command": "set_progress"})

	errorsLog := filepath.Join(baseDir, "errors.jsonl")
	events, err := ReadRecentEvents(errorsLog, 10)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(events))
	}
	if events[0].EventType != "command_failed" {
		t.Errorf("EventType = %q", events[0].EventType)
	}

	session, _ := ReadRecentEvents(filepath.Join(baseDir, "sessions", "test-session.jsonl"), 10)
	if len(session) != 2 {
		t.Errorf("expected 2 session events, got %d", len(session))
	}
}

// TestShouldLog tests level filtering
func TestShouldLog(t *testing.T) {
	logger := NewWriterLogger(&bytes.Buffer{}, "")

	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug level allows debug", LevelDebug, LevelDebug, true},
		{"debug level allows error", LevelDebug, LevelError, true},
		{"info level blocks debug", LevelInfo, LevelDebug, false},
		{"info level allows warn", LevelInfo, LevelWarn, true},
		{"warn level blocks info", LevelWarn, LevelInfo, false},
		{"error level blocks warn", LevelError, LevelWarn, false},
		{"error level allows error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.SetMinLevel(tt.minLevel)
			if got := logger.shouldLog(tt.logLevel); got != tt.shouldLog {
				t.Errorf("shouldLog(%v) with minLevel %v = %v, want %v",
					tt.logLevel, tt.minLevel, got, tt.shouldLog)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	if err := logger.Error(CategoryInput, "x", "y", nil); err != nil {
		t.Errorf("nop logger returned %v", err)
	}
	logger.SetMinLevel(LevelDebug)
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if logger.SessionID() != "" {
		t.Errorf("SessionID() = %q", logger.SessionID())
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel("warn"); !ok || l != LevelWarn {
		t.Errorf("ParseLevel(warn) = %v, %v", l, ok)
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Error("ParseLevel(loud) should fail")
	}
}

func TestReadRecentEventsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	logger := NewWriterLogger(f, "s")
	for _, name := range []string{"a", "b", "c"} {
		logger.Info(CategorySession, name, "", nil)
	}
	f.Close()

	events, err := ReadRecentEvents(path, 2)
	if err != nil {
		t.Fatalf("ReadRecentEvents failed: %v", err)
	}
	if len(events) != 2 || events[0].EventType != "b" || events[1].EventType != "c" {
		t.Errorf("events = %+v", events)
	}

	if _, err := ReadRecentEvents(filepath.Join(t.TempDir(), "missing"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}
