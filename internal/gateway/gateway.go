// Package gateway defines the backend collaborator contracts the conversation
// depends on: OTP issuance, loan account listing and loan detail lookup.
package gateway

import (
	"context"
	"errors"

	"github.com/yellowbank/loanchat/internal/domain"
)

// Sentinel errors returned by gateway implementations. Callers distinguish
// them with errors.Is.
var (
	// ErrInvalidPhone indicates the phone number is not exactly 10 digits.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidDOB indicates the date of birth is missing or too short.
	ErrInvalidDOB = errors.New("invalid date of birth")
	// ErrUnavailable indicates a transient backend failure.
	ErrUnavailable = errors.New("loan service unavailable")
	// ErrNotFound indicates the loan account does not exist.
	ErrNotFound = errors.New("loan account not found")
)

// AccountPage is a projected listing of loan accounts. RawFieldCount and
// ProjectedFieldCount let the conversation disclose how many backend fields
// were filtered out by the projection.
type AccountPage struct {
	Accounts            []domain.ProjectedAccount
	RawFieldCount       int
	ProjectedFieldCount int
}

// Gateway is the backend the state machine calls between transitions. Every
// call may fail; calls honor context cancellation.
type Gateway interface {
	// IssueOTP validates the identity inputs and returns a freshly issued
	// 4-digit code.
	IssueOTP(ctx context.Context, phone, dob string) (int, error)

	// ListAccounts returns the projected loan accounts for a phone number.
	ListAccounts(ctx context.Context, phone string) (AccountPage, error)

	// LoanDetails returns the full detail record for one loan account.
	LoanDetails(ctx context.Context, accountID string) (*domain.LoanDetail, error)
}
