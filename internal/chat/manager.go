package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/yellowbank/loanchat/internal/engine"
	"github.com/yellowbank/loanchat/internal/store"
)

// Manager holds the active sessions, keyed by user and per-tab session ID.
// Sessions are isolated: no context or transcript is shared across them.
type Manager struct {
	engine *engine.Engine
	repo   store.Repository
	tlog   *TranscriptLogger

	mu       sync.RWMutex
	sessions map[string]map[string]*Session
}

// NewManager creates a session manager.
func NewManager(eng *engine.Engine, repo store.Repository, tlog *TranscriptLogger) *Manager {
	return &Manager{
		engine:   eng,
		repo:     repo,
		tlog:     tlog,
		sessions: make(map[string]map[string]*Session),
	}
}

// Get returns the session for a user/session pair, creating it (and seeding
// the greeting) on first use.
func (m *Manager) Get(userID, sessionID string) *Session {
	m.mu.RLock()
	if byTab, ok := m.sessions[userID]; ok {
		if s, ok := byTab[sessionID]; ok {
			m.mu.RUnlock()
			return s
		}
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if byTab, ok := m.sessions[userID]; ok {
		if s, ok := byTab[sessionID]; ok {
			return s
		}
	}

	s := newSession(userID, sessionID, m.engine, m.repo, m.tlog)
	if _, ok := m.sessions[userID]; !ok {
		m.sessions[userID] = make(map[string]*Session)
	}
	m.sessions[userID][sessionID] = s
	slog.Info("Chat session created", "user_id", userID, "session_id", sessionID)
	return s
}

// Remove drops a session.
func (m *Manager) Remove(userID, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if byTab, ok := m.sessions[userID]; ok {
		if _, ok := byTab[sessionID]; ok {
			delete(byTab, sessionID)
			if len(byTab) == 0 {
				delete(m.sessions, userID)
			}
			slog.Info("Chat session removed", "user_id", userID, "session_id", sessionID)
		}
	}
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, byTab := range m.sessions {
		n += len(byTab)
	}
	return n
}

// CleanupIdle removes sessions idle for longer than ttl and returns how many
// were dropped.
func (m *Manager) CleanupIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for userID, byTab := range m.sessions {
		for sessionID, s := range byTab {
			if s.LastActive().Before(cutoff) {
				delete(byTab, sessionID)
				removed++
				slog.Info("Idle chat session expired", "user_id", userID, "session_id", sessionID)
			}
		}
		if len(byTab) == 0 {
			delete(m.sessions, userID)
		}
	}
	return removed
}

// StartIdleWorker runs periodic idle-session cleanup until ctx is cancelled.
func StartIdleWorker(ctx context.Context, m *Manager, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := m.CleanupIdle(ttl); removed > 0 {
					slog.Info("Idle session cleanup complete", "removed", removed)
				}
			}
		}
	}()
}
