// Package engine implements the scripted conversation state machine for the
// loan-inquiry flow. Each processing step takes the current conversation
// context plus one user input, optionally calls the backend gateway, and
// returns the successor context with the agent replies to append. Transitions
// are total: every input in every state yields a defined next state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yellowbank/loanchat/internal/domain"
	"github.com/yellowbank/loanchat/internal/gateway"
	"github.com/yellowbank/loanchat/internal/intent"
)

const maxOTPAttempts = 3

// Reply is one agent-authored message produced by a processing step.
type Reply struct {
	Content string
	Payload *domain.Payload
}

func reply(content string) Reply {
	return Reply{Content: content}
}

// Engine drives the conversation. It holds no per-session state; the caller
// owns the context and passes it into every call.
type Engine struct {
	gw gateway.Gateway
}

// New creates a conversation engine backed by gw.
func New(gw gateway.Gateway) *Engine {
	return &Engine{gw: gw}
}

// Step processes one free-text user message. The language gate and the reset
// intent are checked before any state-specific logic; the gate is a side exit
// that never changes state, and a reset replaces the context wholesale once
// the user is past first contact.
func (e *Engine) Step(ctx context.Context, c domain.Context, message string) (domain.Context, []Reply) {
	if intent.NonEnglish(message) {
		return c, []Reply{reply(msgEnglishOnly)}
	}

	if intent.Reset(message) && c.State != domain.StateAwaitingIntent {
		next := domain.NewContext()
		next.State = domain.StateCollectingPhone
		return next, []Reply{reply(msgResetAck)}
	}

	switch c.State {
	case domain.StateAwaitingIntent:
		return e.stepAwaitingIntent(c, message)
	case domain.StateCollectingPhone:
		return e.stepCollectingPhone(c, message)
	case domain.StateCollectingDOB:
		return e.stepCollectingDOB(ctx, c, message)
	case domain.StateAwaitingOTP:
		return e.stepAwaitingOTP(ctx, c, message)
	case domain.StateDisplayingLoans:
		return c, []Reply{reply(msgSelectFromList)}
	case domain.StateDisplayingDetails:
		return e.stepDisplayingDetails(ctx, c, message)
	case domain.StateCSATRating:
		return c, []Reply{reply(msgSelectRating)}
	case domain.StateCSATFeedback:
		return e.stepCSATFeedback(c, message)
	case domain.StateCompleted:
		return e.stepCompleted(c, message)
	default:
		// Transient states are never observed between steps; if a message
		// lands here anyway, hold position and reprompt.
		slog.Warn("message received in transient state", "state", c.State)
		return c, []Reply{reply(msgOneMoment)}
	}
}

func (e *Engine) stepAwaitingIntent(c domain.Context, message string) (domain.Context, []Reply) {
	if !intent.Loan(message) {
		return c, []Reply{reply(msgIntentHint)}
	}
	c.State = domain.StateCollectingPhone
	return c, []Reply{reply(msgAskPhone)}
}

func (e *Engine) stepCollectingPhone(c domain.Context, message string) (domain.Context, []Reply) {
	phone, ok := intent.ExtractPhone(message)
	if !ok {
		return c, []Reply{reply(msgPhoneInvalid)}
	}
	c.Phone = phone
	c.State = domain.StateCollectingDOB
	return c, []Reply{reply(fmt.Sprintf(msgPhoneNotedFmt, formatPhone(phone)))}
}

func (e *Engine) stepCollectingDOB(ctx context.Context, c domain.Context, message string) (domain.Context, []Reply) {
	dob := strings.TrimSpace(message)
	if len(dob) < 6 {
		return c, []Reply{reply(msgDOBInvalid)}
	}

	c.DOB = dob
	c.State = domain.StateTriggeringOTP
	replies := []Reply{reply(msgSendingOTP)}

	code, err := e.gw.IssueOTP(ctx, c.Phone, c.DOB)
	if err != nil {
		slog.Warn("otp issuance failed", "error", err)
		c.State = domain.StateCollectingPhone
		c.Phone = ""
		c.DOB = ""
		return c, append(replies, reply(fmt.Sprintf(msgOTPFailedFmt, issueErrorText(err))))
	}

	c.IssuedOTP = &code
	c.State = domain.StateAwaitingOTP
	return c, append(replies, reply(fmt.Sprintf(msgOTPSentFmt, code)))
}

func (e *Engine) stepAwaitingOTP(ctx context.Context, c domain.Context, message string) (domain.Context, []Reply) {
	token, ok := intent.ExtractOTP(message)
	if !ok {
		// Formatting mistakes are not counted against the user.
		return c, []Reply{reply(msgOTPPrompt)}
	}

	entered, err := strconv.Atoi(token)
	if err != nil || c.IssuedOTP == nil || entered != *c.IssuedOTP {
		c.RetryCount++
		if c.RetryCount >= maxOTPAttempts {
			return domain.NewContext(), []Reply{reply(msgOTPLockout)}
		}
		return c, []Reply{reply(fmt.Sprintf(msgOTPWrongFmt, maxOTPAttempts-c.RetryCount))}
	}

	c.RetryCount = 0
	c.State = domain.StateFetchingLoans
	replies := []Reply{reply(msgOTPVerified)}

	next, listReply := e.listAccounts(ctx, c, msgAccountsIntro)
	return next, append(replies, listReply)
}

func (e *Engine) stepDisplayingDetails(ctx context.Context, c domain.Context, message string) (domain.Context, []Reply) {
	if !intent.Loan(message) {
		return c, []Reply{reply(msgDetailsHint)}
	}

	next, listReply := e.listAccountsAgain(ctx, c)
	return next, []Reply{listReply}
}

func (e *Engine) stepCSATFeedback(c domain.Context, message string) (domain.Context, []Reply) {
	lower := strings.ToLower(message)
	c.State = domain.StateCompleted
	if strings.Contains(lower, "no") || strings.Contains(lower, "skip") || strings.Contains(lower, "done") {
		return c, []Reply{reply(msgSurveyDone)}
	}
	c.Feedback = message
	return c, []Reply{reply(msgFeedbackThanks)}
}

func (e *Engine) stepCompleted(c domain.Context, message string) (domain.Context, []Reply) {
	if !intent.Loan(message) {
		return c, []Reply{reply(msgClosing)}
	}
	next := domain.NewContext()
	next.State = domain.StateCollectingPhone
	return next, []Reply{reply(msgRestart)}
}

// SelectLoan handles the out-of-band loan card selection. It is only valid
// while a list or a detail view is on screen; anywhere else it reprompts
// without moving.
func (e *Engine) SelectLoan(ctx context.Context, c domain.Context, loanID string) (domain.Context, []Reply) {
	if c.State != domain.StateDisplayingLoans && c.State != domain.StateDisplayingDetails {
		return c, []Reply{reply(msgSelectFromList)}
	}

	c.SelectedLoanID = loanID
	c.State = domain.StateFetchingDetails

	detail, err := e.gw.LoanDetails(ctx, loanID)
	if err != nil {
		slog.Warn("loan detail lookup failed", "loan_account_id", loanID, "error", err)
		c.State = domain.StateDisplayingLoans
		return c, []Reply{reply(fmt.Sprintf(msgDetailsFailedFmt, lookupErrorText(err)))}
	}

	c.State = domain.StateDisplayingDetails
	return c, []Reply{{
		Content: fmt.Sprintf(msgDetailsIntroFmt, detail.TypeOfLoan, domain.FormatINR(detail.EMIAmount), detail.NextPaymentDate),
		Payload: &domain.Payload{Kind: domain.PayloadLoanDetail, Detail: detail},
	}}
}

// RequestRating handles the "Rate our chat" click on the detail card.
func (e *Engine) RequestRating(c domain.Context) (domain.Context, []Reply) {
	if c.State != domain.StateDisplayingDetails {
		return c, []Reply{reply(msgDetailsHint)}
	}
	c.State = domain.StateCSATRating
	return c, []Reply{{
		Content: msgRatingPrompt,
		Payload: &domain.Payload{
			Kind:          domain.PayloadRatingOptions,
			RatingOptions: []string{domain.RatingGood, domain.RatingAverage, domain.RatingBad},
		},
	}}
}

// SubmitRating handles the out-of-band rating button click.
func (e *Engine) SubmitRating(c domain.Context, rating string) (domain.Context, []Reply) {
	if c.State != domain.StateCSATRating {
		return c, []Reply{reply(msgSelectRating)}
	}
	if !domain.ValidRating(rating) {
		return c, []Reply{reply(msgSelectRating)}
	}
	c.Rating = rating
	c.State = domain.StateCSATFeedback
	return c, []Reply{reply(msgFeedbackPrompt)}
}

// listAccounts fetches and projects the account list. On gateway failure the
// machine falls back to awaiting_intent, never forward.
func (e *Engine) listAccounts(ctx context.Context, c domain.Context, introText string) (domain.Context, Reply) {
	page, err := e.gw.ListAccounts(ctx, c.Phone)
	if err != nil {
		slog.Warn("account listing failed", "error", err)
		c.State = domain.StateAwaitingIntent
		return c, reply(fmt.Sprintf(msgAccountsFailedFmt, lookupErrorText(err)))
	}

	c.State = domain.StateDisplayingLoans
	return c, Reply{
		Content: introText,
		Payload: &domain.Payload{
			Kind:                domain.PayloadAccountList,
			Accounts:            page.Accounts,
			RawFieldCount:       page.RawFieldCount,
			ProjectedFieldCount: page.ProjectedFieldCount,
		},
	}
}

// listAccountsAgain re-lists accounts from the details view. A failure here
// holds the details view rather than regressing a verified user.
func (e *Engine) listAccountsAgain(ctx context.Context, c domain.Context) (domain.Context, Reply) {
	page, err := e.gw.ListAccounts(ctx, c.Phone)
	if err != nil {
		slog.Warn("account re-listing failed", "error", err)
		return c, reply(fmt.Sprintf(msgAccountsFailedShortFmt, lookupErrorText(err)))
	}

	c.State = domain.StateDisplayingLoans
	return c, Reply{
		Content: msgAccountsAgain,
		Payload: &domain.Payload{
			Kind:                domain.PayloadAccountList,
			Accounts:            page.Accounts,
			RawFieldCount:       page.RawFieldCount,
			ProjectedFieldCount: page.ProjectedFieldCount,
		},
	}
}

// formatPhone renders a 10-digit number as xxx-xxx-xxxx.
func formatPhone(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	return phone[:3] + "-" + phone[3:6] + "-" + phone[6:]
}

func issueErrorText(err error) string {
	switch {
	case errors.Is(err, gateway.ErrInvalidPhone):
		return "Invalid phone number. Please provide a valid 10-digit number."
	case errors.Is(err, gateway.ErrInvalidDOB):
		return "Invalid date of birth."
	default:
		return "Failed to send OTP."
	}
}

func lookupErrorText(err error) string {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return "Loan account not found."
	case errors.Is(err, gateway.ErrUnavailable):
		return "Unable to fetch loan accounts. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
