package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yellowbank/loanchat/internal/chat"
	"github.com/yellowbank/loanchat/internal/domain"
	"github.com/yellowbank/loanchat/internal/identity"
	"github.com/yellowbank/loanchat/internal/store"
)

// ChatHandler exposes the conversation over plain HTTP. Each call returns the
// agent messages appended by that step plus the resulting state, so a client
// without the WebSocket transport can still drive the whole flow.
type ChatHandler struct {
	mgr  *chat.Manager
	repo store.Repository
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(mgr *chat.Manager, repo store.Repository) *ChatHandler {
	return &ChatHandler{mgr: mgr, repo: repo}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/message", h.Message)
		r.Post("/select", h.Select)
		r.Post("/rate/request", h.RequestRating)
		r.Post("/rate", h.Rate)
		r.Post("/reset", h.Reset)
		r.Get("/transcript", h.Transcript)
		r.Get("/context", h.Context)
	})
}

type messageRequest struct {
	Message string `json:"message"`
}

type selectRequest struct {
	LoanAccountID string `json:"loan_account_id"`
}

type rateRequest struct {
	Rating string `json:"rating"`
}

type stepResponse struct {
	Messages []domain.Message `json:"messages"`
	State    domain.State     `json:"state"`
}

// Message processes one free-text user message.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	h.step(w, r, func(ctx context.Context, sess *chat.Session) ([]domain.Message, error) {
		return sess.HandleUserMessage(ctx, strings.TrimSpace(req.Message))
	})
}

// Select processes the out-of-band loan card selection.
func (h *ChatHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LoanAccountID == "" {
		Error(w, http.StatusBadRequest, "loan_account_id cannot be empty")
		return
	}

	h.step(w, r, func(ctx context.Context, sess *chat.Session) ([]domain.Message, error) {
		return sess.SelectLoan(ctx, req.LoanAccountID)
	})
}

// RequestRating opens the satisfaction survey.
func (h *ChatHandler) RequestRating(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, func(ctx context.Context, sess *chat.Session) ([]domain.Message, error) {
		return sess.RequestRating(ctx)
	})
}

// Rate processes the out-of-band rating selection.
func (h *ChatHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !domain.ValidRating(req.Rating) {
		Error(w, http.StatusBadRequest, "rating must be one of good, average, bad")
		return
	}

	h.step(w, r, func(ctx context.Context, sess *chat.Session) ([]domain.Message, error) {
		return sess.SubmitRating(ctx, req.Rating)
	})
}

// Reset discards the conversation and reseeds the greeting.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if err := sess.Reset(); err != nil {
		if errors.Is(err, chat.ErrBusy) {
			Error(w, http.StatusConflict, "a message is still being processed")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to reset session")
		return
	}
	h.touchLastSeen(r)
	JSON(w, http.StatusOK, stepResponse{
		Messages: sess.Transcript(),
		State:    sess.Context().State,
	})
}

// Transcript returns the full message log for the session.
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	JSON(w, http.StatusOK, stepResponse{
		Messages: sess.Transcript(),
		State:    sess.Context().State,
	})
}

// Context returns the current conversation context.
func (h *ChatHandler) Context(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	JSON(w, http.StatusOK, sess.Context())
}

func (h *ChatHandler) session(r *http.Request) *chat.Session {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	return h.mgr.Get(userID, sessionID)
}

func (h *ChatHandler) step(w http.ResponseWriter, r *http.Request, fn func(context.Context, *chat.Session) ([]domain.Message, error)) {
	sess := h.session(r)

	appended, err := fn(r.Context(), sess)
	if err != nil {
		if errors.Is(err, chat.ErrBusy) {
			Error(w, http.StatusConflict, "a message is still being processed")
			return
		}
		slog.Error("chat step failed", "user_id", sess.UserID, "session_id", sess.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	h.touchLastSeen(r)
	JSON(w, http.StatusOK, stepResponse{
		Messages: appended,
		State:    sess.Context().State,
	})
}

// touchLastSeen updates the user's last_seen_at asynchronously; chat latency
// should not wait on the write.
func (h *ChatHandler) touchLastSeen(r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.repo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
			slog.Warn("Failed to update last seen", "user_id", userID, "error", err)
		}
	}()
}
