package chat

import "github.com/yellowbank/loanchat/internal/domain"

// EventType identifies a session lifecycle event pushed to subscribers.
type EventType string

// Session events. Typing events bracket every processing step so the
// rendering layer can show and hide the transient typing indicator; they are
// not messages and never enter the transcript.
const (
	EventMessage       EventType = "message"
	EventTypingStarted EventType = "typing_started"
	EventTypingStopped EventType = "typing_stopped"
	EventReset         EventType = "reset"
)

// Event is a session lifecycle notification.
type Event struct {
	Type    EventType       `json:"type"`
	Message *domain.Message `json:"message,omitempty"`
	State   domain.State    `json:"state,omitempty"`
}
