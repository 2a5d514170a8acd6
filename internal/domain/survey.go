package domain

import "time"

// SurveyRecord is a completed satisfaction survey, persisted when a
// conversation reaches the terminal state.
type SurveyRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	Rating    string    `json:"rating"`
	Feedback  string    `json:"feedback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
