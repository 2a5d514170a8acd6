package chat

import (
	"context"
	"testing"
	"time"

	"github.com/yellowbank/loanchat/internal/domain"
	"github.com/yellowbank/loanchat/internal/engine"
	"github.com/yellowbank/loanchat/internal/gateway"
)

func newTestManager() *Manager {
	gw := gateway.NewMock(gateway.MockConfig{Seed: 1})
	return NewManager(engine.New(gw), &fakeRepo{}, nil)
}

func TestManagerGetReturnsSameSession(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	a := m.Get("anon_user", "tab-1")
	b := m.Get("anon_user", "tab-1")
	if a != b {
		t.Error("same user/session pair returned different sessions")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	ctx := context.Background()

	tab1 := m.Get("anon_user", "tab-1")
	tab2 := m.Get("anon_user", "tab-2")
	other := m.Get("anon_other", "tab-1")

	if _, err := tab1.HandleUserMessage(ctx, "Show my loan details"); err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}

	if tab1.Context().State != domain.StateCollectingPhone {
		t.Errorf("tab1 state = %q", tab1.Context().State)
	}
	if tab2.Context().State != domain.StateAwaitingIntent {
		t.Errorf("tab2 state = %q, want untouched", tab2.Context().State)
	}
	if other.Context().State != domain.StateAwaitingIntent {
		t.Errorf("other user state = %q, want untouched", other.Context().State)
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
}

func TestManagerRemove(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	first := m.Get("anon_user", "tab-1")
	if _, err := first.HandleUserMessage(context.Background(), "Show my loan details"); err != nil {
		t.Fatalf("HandleUserMessage: %v", err)
	}

	m.Remove("anon_user", "tab-1")
	if m.Len() != 0 {
		t.Fatalf("Len = %d, want 0", m.Len())
	}

	// Recreated session starts fresh.
	second := m.Get("anon_user", "tab-1")
	if second == first {
		t.Error("removed session was returned again")
	}
	if second.Context().State != domain.StateAwaitingIntent {
		t.Errorf("recreated state = %q", second.Context().State)
	}
}

func TestManagerCleanupIdle(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	stale := m.Get("anon_user", "tab-1")
	fresh := m.Get("anon_user", "tab-2")

	stale.mu.Lock()
	stale.lastActive = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	removed := m.CleanupIdle(time.Hour)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if got := m.Get("anon_user", "tab-2"); got != fresh {
		t.Error("fresh session was dropped")
	}
}
