package chat

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTranscriptLoggerWritesPerSessionNDJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := NewTranscriptLogger(TranscriptLogConfig{
		Enabled:   true,
		Dir:       dir,
		QueueSize: 16,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Log(TranscriptEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		UserID:    "anon_user",
		SessionID: "tab-1",
		Role:      "user",
		State:     "collecting_phone",
		Content:   "9876543210",
	})

	path := filepath.Join(dir, "anon_user", "tab-1.ndjson")
	line := waitForLogLine(t, path)
	var got TranscriptEvent
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("failed to unmarshal log line: %v", err)
	}
	if got.Content != "9876543210" {
		t.Fatalf("unexpected Content: %q", got.Content)
	}
	if got.State != "collecting_phone" {
		t.Fatalf("unexpected State: %q", got.State)
	}
}

func TestTranscriptLoggerGlobalMirror(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	globalPath := filepath.Join(dir, "all.ndjson")
	logger, err := NewTranscriptLogger(TranscriptLogConfig{
		GlobalEnabled: true,
		GlobalPath:    globalPath,
		QueueSize:     16,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Log(TranscriptEvent{UserID: "anon_a", SessionID: "tab-1", Role: "agent", Content: "hello"})
	logger.Log(TranscriptEvent{UserID: "anon_b", SessionID: "tab-2", Role: "agent", Content: "hello"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(globalPath)
		if err == nil && strings.Count(string(data), "\n") >= 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for global transcript log")
}

func TestTranscriptLoggerDisabledIsNoop(t *testing.T) {
	t.Parallel()

	logger, err := NewTranscriptLogger(TranscriptLogConfig{}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}

	// Must not panic or block.
	logger.Log(TranscriptEvent{UserID: "anon_user", SessionID: "tab-1", Content: "x"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestTranscriptLoggerCloseDrainsQueue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := NewTranscriptLogger(TranscriptLogConfig{
		Enabled:   true,
		Dir:       dir,
		QueueSize: 64,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewTranscriptLogger failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		logger.Log(TranscriptEvent{UserID: "anon_user", SessionID: "tab-1", Role: "agent", Content: "line"})
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "anon_user", "tab-1.ndjson"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 10 {
		t.Fatalf("lines after close = %d, want 10", got)
	}
}

func waitForLogLine(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) > 0 {
				return lines[len(lines)-1]
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for log file %s", path)
	return ""
}
