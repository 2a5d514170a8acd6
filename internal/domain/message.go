package domain

import (
	"time"
)

// Role identifies the author of a chat message.
type Role string

// Message roles.
const (
	RoleAgent Role = "agent"
	RoleUser  Role = "user"
)

// PayloadKind discriminates the structured payload attached to a message.
type PayloadKind string

// Payload kinds.
const (
	PayloadAccountList   PayloadKind = "account_list"
	PayloadLoanDetail    PayloadKind = "loan_detail"
	PayloadRatingOptions PayloadKind = "rating_options"
)

// Payload carries structured data alongside a message for the rendering layer:
// a selectable account list, a loan detail record, or survey rating options.
// Exactly the fields matching Kind are populated.
type Payload struct {
	Kind                PayloadKind        `json:"kind"`
	Accounts            []ProjectedAccount `json:"accounts,omitempty"`
	RawFieldCount       int                `json:"raw_field_count,omitempty"`
	ProjectedFieldCount int                `json:"projected_field_count,omitempty"`
	Detail              *LoanDetail        `json:"detail,omitempty"`
	RatingOptions       []string           `json:"rating_options,omitempty"`
}

// Message is one entry in a session's append-only transcript. Seq preserves
// creation order within the session.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Payload   *Payload  `json:"payload,omitempty"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}
