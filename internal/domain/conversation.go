// Package domain contains core domain types for the loanchat application.
package domain

// State identifies a node of the conversation state machine.
type State string

// Conversation states. AwaitingIntent is the initial state, Completed the
// terminal one. TriggeringOTP, FetchingLoans and FetchingDetails are transient:
// they are entered and left within a single processing step while the backend
// gateway is awaited.
const (
	StateAwaitingIntent    State = "awaiting_intent"
	StateCollectingPhone   State = "collecting_phone"
	StateCollectingDOB     State = "collecting_dob"
	StateTriggeringOTP     State = "triggering_otp"
	StateAwaitingOTP       State = "awaiting_otp"
	StateFetchingLoans     State = "fetching_loans"
	StateDisplayingLoans   State = "displaying_loans"
	StateFetchingDetails   State = "fetching_details"
	StateDisplayingDetails State = "displaying_details"
	StateCSATRating        State = "csat_rating"
	StateCSATFeedback      State = "csat_feedback"
	StateCompleted         State = "completed"
)

// Satisfaction rating values.
const (
	RatingGood    = "good"
	RatingAverage = "average"
	RatingBad     = "bad"
)

// ValidRating reports whether r is one of the accepted rating values.
func ValidRating(r string) bool {
	return r == RatingGood || r == RatingAverage || r == RatingBad
}

// Context describes one conversation. It is treated as a value: each
// processing step takes the current context and returns its successor, so a
// past context is never mutated in place.
type Context struct {
	State          State  `json:"state"`
	Phone          string `json:"phone,omitempty"`
	DOB            string `json:"dob,omitempty"`
	IssuedOTP      *int   `json:"-"`
	SelectedLoanID string `json:"selected_loan_id,omitempty"`
	Rating         string `json:"rating,omitempty"`
	Feedback       string `json:"feedback,omitempty"`
	RetryCount     int    `json:"retry_count"`
}

// NewContext returns a fresh context at the start of a conversation.
func NewContext() Context {
	return Context{State: StateAwaitingIntent}
}

// Verified reports whether the conversation has passed OTP verification,
// meaning loan data may be shown.
func (c Context) Verified() bool {
	switch c.State {
	case StateDisplayingLoans, StateFetchingDetails, StateDisplayingDetails,
		StateCSATRating, StateCSATFeedback, StateCompleted:
		return true
	}
	return false
}
