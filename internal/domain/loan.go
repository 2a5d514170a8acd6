package domain

import (
	"strconv"
	"strings"
)

// ProjectedAccount is the field-projected view of a loan account shown in the
// selection list. The backend records carry far more fields; only these three
// survive the projection.
type ProjectedAccount struct {
	LoanAccountID string `json:"loan_account_id"`
	TypeOfLoan    string `json:"type_of_loan"`
	TenureMonths  int    `json:"tenure_months"`
}

// LoanDetail is the full detail record for a single loan account.
type LoanDetail struct {
	LoanAccountID    string  `json:"loan_account_id"`
	TypeOfLoan       string  `json:"type_of_loan"`
	TenureMonths     int     `json:"tenure_months"`
	InterestRate     float64 `json:"interest_rate"`
	PrincipalPending int64   `json:"principal_pending"`
	InterestPending  int64   `json:"interest_pending"`
	Nominee          string  `json:"nominee"`
	EMIAmount        int64   `json:"emi_amount"`
	NextPaymentDate  string  `json:"next_payment_date"`
}

// FormatINR renders an amount in rupees with Indian digit grouping and no
// fraction, e.g. 4850000 -> "₹48,50,000".
func FormatINR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return sign + "₹" + s
	}

	// Last group of three, then groups of two.
	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + "₹" + strings.Join(groups, ",") + "," + tail
}
