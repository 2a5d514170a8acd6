package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/yellowbank/loanchat/internal/domain"
	"github.com/yellowbank/loanchat/internal/identity"
)

// WebSocketHandler serves the live chat transport. On connect the client
// receives a transcript snapshot, then live session events; it sends typed
// events mirroring the HTTP chat endpoints.
type WebSocketHandler struct {
	mgr           *Manager
	allowedOrigin string
	isDev         bool
}

// NewWebSocketHandler creates a new chat WebSocket handler.
func NewWebSocketHandler(mgr *Manager, allowedOrigin string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		mgr:           mgr,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// wsClientEvent is a message from the browser.
type wsClientEvent struct {
	Type          string `json:"type"`
	Message       string `json:"message,omitempty"`
	LoanAccountID string `json:"loan_account_id,omitempty"`
	Rating        string `json:"rating,omitempty"`
}

// wsServerEvent is a message to the browser.
type wsServerEvent struct {
	Type     string           `json:"type"`
	Messages []domain.Message `json:"messages,omitempty"`
	Message  *domain.Message  `json:"message,omitempty"`
	State    domain.State     `json:"state,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("Chat WebSocket connection request", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := h.mgr.Get(userID, sessionID)
	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	// Snapshot before live events so the client renders existing history.
	if err := h.writeJSON(ctx, ws, wsServerEvent{
		Type:     "snapshot",
		Messages: sess.Transcript(),
		State:    sess.Context().State,
	}); err != nil {
		slog.Debug("Failed to send transcript snapshot", "error", err, "user_id", userID)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer cancel()
		h.readLoop(ctx, ws, sess, userID)
	}()

	go func() {
		defer wg.Done()
		defer cancel()
		h.writeLoop(ctx, ws, events, userID)
	}()

	wg.Wait()
	slog.Info("Chat WebSocket session ended", "user_id", userID, "session_id", sessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) readLoop(ctx context.Context, ws *websocket.Conn, sess *Session, userID string) {
	for {
		_, raw, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var ev wsClientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			h.writeError(ctx, ws, "malformed event")
			continue
		}

		if err := h.dispatch(ctx, sess, ev); err != nil {
			if errors.Is(err, ErrBusy) {
				// Dropped, not queued. The client re-enables its input.
				h.writeError(ctx, ws, "busy")
				continue
			}
			h.writeError(ctx, ws, err.Error())
		}
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, sess *Session, ev wsClientEvent) error {
	switch ev.Type {
	case "message":
		_, err := sess.HandleUserMessage(ctx, ev.Message)
		return err
	case "select_loan":
		_, err := sess.SelectLoan(ctx, ev.LoanAccountID)
		return err
	case "request_rating":
		_, err := sess.RequestRating(ctx)
		return err
	case "rate":
		_, err := sess.SubmitRating(ctx, ev.Rating)
		return err
	case "reset":
		return sess.Reset()
	default:
		return errors.New("unknown event type")
	}
}

func (h *WebSocketHandler) writeLoop(ctx context.Context, ws *websocket.Conn, events <-chan Event, userID string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			out := wsServerEvent{
				Type:    string(ev.Type),
				Message: ev.Message,
				State:   ev.State,
			}
			if err := h.writeJSON(ctx, ws, out); err != nil {
				if ctx.Err() == nil {
					slog.Debug("WebSocket write error", "error", err, "user_id", userID)
				}
				return
			}
		}
	}
}

func (h *WebSocketHandler) writeError(ctx context.Context, ws *websocket.Conn, msg string) {
	if err := h.writeJSON(ctx, ws, wsServerEvent{Type: "error", Error: msg}); err != nil {
		slog.Debug("Failed to send error event", "error", err)
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
