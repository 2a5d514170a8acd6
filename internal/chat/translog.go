package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// TranscriptLogConfig controls NDJSON transcript logging.
type TranscriptLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// TranscriptEvent is one transcript log line.
type TranscriptEvent struct {
	Timestamp string `json:"ts"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	State     string `json:"state,omitempty"`
	Content   string `json:"content"`
}

// TranscriptLogger appends chat transcripts to per-session NDJSON files
// (<dir>/<user_id>/<session_id>.ndjson), optionally mirroring every event to
// a single global file. Writes happen on a background worker; Log never
// blocks the conversation, it drops events when the queue is full.
type TranscriptLogger struct {
	cfg    TranscriptLogConfig
	logger *slog.Logger

	ch     chan TranscriptEvent
	wg     sync.WaitGroup
	closed sync.Once

	files  map[string]*os.File
	global *os.File
}

// NewTranscriptLogger creates the logger and starts its writer goroutine.
// A fully disabled config yields a no-op logger.
func NewTranscriptLogger(cfg TranscriptLogConfig, logger *slog.Logger) (*TranscriptLogger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l := &TranscriptLogger{
		cfg:    cfg,
		logger: logger,
		files:  make(map[string]*os.File),
	}

	if !cfg.Enabled && !cfg.GlobalEnabled {
		return l, nil
	}

	if l.cfg.QueueSize <= 0 {
		l.cfg.QueueSize = 1000
	}

	if cfg.Enabled {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create transcript log dir: %w", err)
		}
	}
	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0o755); err != nil {
			return nil, fmt.Errorf("create global transcript log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.GlobalPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open global transcript log: %w", err)
		}
		l.global = f
	}

	l.ch = make(chan TranscriptEvent, l.cfg.QueueSize)
	l.wg.Add(1)
	go l.writeLoop()

	return l, nil
}

// Log enqueues one event. It is safe to call from any goroutine and never
// blocks.
func (l *TranscriptLogger) Log(ev TranscriptEvent) {
	if l.ch == nil {
		return
	}
	select {
	case l.ch <- ev:
	default:
		l.logger.Warn("transcript log queue full, dropping event",
			"user_id", ev.UserID, "session_id", ev.SessionID)
	}
}

// Close drains the queue and closes all log files.
func (l *TranscriptLogger) Close() error {
	if l.ch == nil {
		return nil
	}
	l.closed.Do(func() {
		close(l.ch)
	})
	l.wg.Wait()

	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.global != nil {
		if err := l.global.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (l *TranscriptLogger) writeLoop() {
	defer l.wg.Done()
	for ev := range l.ch {
		line, err := json.Marshal(ev)
		if err != nil {
			l.logger.Warn("failed to marshal transcript event", "error", err)
			continue
		}
		line = append(line, '\n')

		if l.cfg.Enabled {
			if f := l.sessionFile(ev.UserID, ev.SessionID); f != nil {
				if _, err := f.Write(line); err != nil {
					l.logger.Warn("failed to write transcript line", "error", err)
				}
			}
		}
		if l.global != nil {
			if _, err := l.global.Write(line); err != nil {
				l.logger.Warn("failed to write global transcript line", "error", err)
			}
		}
	}
}

// sessionFile lazily opens (and caches) the per-session NDJSON file. Only the
// writer goroutine touches the cache.
func (l *TranscriptLogger) sessionFile(userID, sessionID string) *os.File {
	key := userID + "/" + sessionID
	if f, ok := l.files[key]; ok {
		return f
	}

	dir := filepath.Join(l.cfg.Dir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.logger.Warn("failed to create transcript session dir", "dir", dir, "error", err)
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, sessionID+".ndjson"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.logger.Warn("failed to open transcript session file", "error", err)
		return nil
	}
	l.files[key] = f
	return f
}
