// Package chat implements the session driver: it owns the mutable
// conversation context and append-only transcript for each user session,
// serializes message processing, surrounds gateway-calling steps with typing
// indicator events, and routes out-of-band UI events into the same state
// machine as free text.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yellowbank/loanchat/internal/domain"
	"github.com/yellowbank/loanchat/internal/engine"
	"github.com/yellowbank/loanchat/internal/store"
)

// ErrBusy is returned when a session is asked to process input while a prior
// message is still in flight. The caller drops the input; there is no queue.
var ErrBusy = errors.New("session is processing a previous message")

const subscriberBuffer = 64

// Session drives one conversation. At most one message or out-of-band event
// is processed at a time; concurrent input is rejected with ErrBusy.
type Session struct {
	UserID    string
	SessionID string

	engine *engine.Engine
	repo   store.Repository
	tlog   *TranscriptLogger

	inFlight atomic.Bool

	mu         sync.Mutex
	convo      domain.Context
	transcript []domain.Message
	seq        int
	lastActive time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func newSession(userID, sessionID string, eng *engine.Engine, repo store.Repository, tlog *TranscriptLogger) *Session {
	s := &Session{
		UserID:     userID,
		SessionID:  sessionID,
		engine:     eng,
		repo:       repo,
		tlog:       tlog,
		convo:      domain.NewContext(),
		lastActive: time.Now(),
		subs:       make(map[int]chan Event),
	}
	s.appendMessage(domain.RoleAgent, engine.Greeting, nil)
	return s
}

// HandleUserMessage processes one free-text user message and returns the
// agent messages appended in response.
func (s *Session) HandleUserMessage(ctx context.Context, text string) ([]domain.Message, error) {
	return s.run(ctx, text, func(ctx context.Context, c domain.Context) (domain.Context, []engine.Reply) {
		return s.engine.Step(ctx, c, text)
	})
}

// SelectLoan processes the out-of-band loan card selection.
func (s *Session) SelectLoan(ctx context.Context, loanID string) ([]domain.Message, error) {
	return s.run(ctx, "Selected loan: "+loanID, func(ctx context.Context, c domain.Context) (domain.Context, []engine.Reply) {
		return s.engine.SelectLoan(ctx, c, loanID)
	})
}

// RequestRating processes the "Rate our chat" click. No user message is
// recorded; the click only opens the survey.
func (s *Session) RequestRating(ctx context.Context) ([]domain.Message, error) {
	return s.run(ctx, "", func(_ context.Context, c domain.Context) (domain.Context, []engine.Reply) {
		return s.engine.RequestRating(c)
	})
}

// SubmitRating processes the out-of-band rating button click.
func (s *Session) SubmitRating(ctx context.Context, rating string) ([]domain.Message, error) {
	return s.run(ctx, "Rating: "+ratingLabel(rating), func(_ context.Context, c domain.Context) (domain.Context, []engine.Reply) {
		return s.engine.SubmitRating(c, rating)
	})
}

// Reset discards the context and transcript atomically and reseeds the
// greeting.
func (s *Session) Reset() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	s.convo = domain.NewContext()
	s.transcript = nil
	s.seq = 0
	s.lastActive = time.Now()
	s.mu.Unlock()

	s.publish(Event{Type: EventReset, State: domain.StateAwaitingIntent})
	s.appendMessage(domain.RoleAgent, engine.Greeting, nil)
	return nil
}

// run is the single processing path for every kind of input. It enforces the
// at-most-one-in-flight rule, appends the user message (if any), brackets the
// engine step with typing events, commits the successor context and appends
// the agent replies.
func (s *Session) run(ctx context.Context, userText string, step func(context.Context, domain.Context) (domain.Context, []engine.Reply)) ([]domain.Message, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.inFlight.Store(false)

	if userText != "" {
		s.appendMessage(domain.RoleUser, userText, nil)
	}

	prev := s.Context()
	s.publish(Event{Type: EventTypingStarted, State: prev.State})
	next, replies := step(ctx, prev)
	s.publish(Event{Type: EventTypingStopped, State: next.State})

	s.mu.Lock()
	s.convo = next
	s.lastActive = time.Now()
	s.mu.Unlock()

	appended := make([]domain.Message, 0, len(replies))
	for _, r := range replies {
		appended = append(appended, s.appendMessage(domain.RoleAgent, r.Content, r.Payload))
	}

	if next.State == domain.StateCompleted && prev.State != domain.StateCompleted && next.Rating != "" {
		s.saveSurvey(ctx, next)
	}

	return appended, nil
}

// Context returns a copy of the current conversation context.
func (s *Session) Context() domain.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convo
}

// Transcript returns a copy of the message log in creation order.
func (s *Session) Transcript() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// LastActive returns the time of the last processed input.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Subscribe registers a lifecycle event listener. The returned cancel func
// must be called to release it. Events are dropped, not queued, for slow
// subscribers.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Session) appendMessage(role domain.Role, content string, payload *domain.Payload) domain.Message {
	s.mu.Lock()
	s.seq++
	msg := domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Payload:   payload,
		Seq:       s.seq,
		CreatedAt: time.Now(),
	}
	s.transcript = append(s.transcript, msg)
	state := s.convo.State
	s.mu.Unlock()

	s.publish(Event{Type: EventMessage, Message: &msg, State: state})

	if s.tlog != nil {
		s.tlog.Log(TranscriptEvent{
			Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339Nano),
			UserID:    s.UserID,
			SessionID: s.SessionID,
			Role:      string(role),
			State:     string(state),
			Content:   content,
		})
	}
	return msg
}

func (s *Session) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("dropping session event for slow subscriber",
				"user_id", s.UserID, "session_id", s.SessionID, "subscriber", id, "event", ev.Type)
		}
	}
}

func (s *Session) saveSurvey(ctx context.Context, c domain.Context) {
	if s.repo == nil {
		return
	}
	record := &domain.SurveyRecord{
		ID:        uuid.NewString(),
		UserID:    s.UserID,
		SessionID: s.SessionID,
		Rating:    c.Rating,
		Feedback:  c.Feedback,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveSurvey(ctx, record); err != nil {
		slog.Warn("failed to persist survey", "user_id", s.UserID, "session_id", s.SessionID, "error", err)
	}
}

func ratingLabel(rating string) string {
	switch rating {
	case domain.RatingGood:
		return "😊 Good"
	case domain.RatingAverage:
		return "😐 Average"
	case domain.RatingBad:
		return "😞 Bad"
	default:
		return rating
	}
}
