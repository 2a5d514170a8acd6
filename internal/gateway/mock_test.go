package gateway

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIssueOTP(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{Seed: 1})

	tests := []struct {
		name    string
		phone   string
		dob     string
		wantErr error
	}{
		{name: "valid", phone: "9876543210", dob: "15/03/1990"},
		{name: "formatted phone", phone: "987-654-3210", dob: "15/03/1990"},
		{name: "too few digits", phone: "98765", dob: "15/03/1990", wantErr: ErrInvalidPhone},
		{name: "too many digits", phone: "98765432101", dob: "15/03/1990", wantErr: ErrInvalidPhone},
		{name: "short dob", phone: "9876543210", dob: "1990", wantErr: ErrInvalidDOB},
		{name: "blank dob", phone: "9876543210", dob: "   ", wantErr: ErrInvalidDOB},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, err := m.IssueOTP(context.Background(), tt.phone, tt.dob)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if code < 1000 || code > 9999 {
				t.Errorf("code = %d, want 4 digits", code)
			}
		})
	}
}

func TestIssueOTPDrawsFromPool(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{Seed: 42})
	pool := map[int]bool{1234: true, 5678: true, 7889: true, 1209: true}

	for i := 0; i < 20; i++ {
		code, err := m.IssueOTP(context.Background(), "9876543210", "15/03/1990")
		if err != nil {
			t.Fatalf("IssueOTP: %v", err)
		}
		if !pool[code] {
			t.Fatalf("code %d not in fixed pool", code)
		}
	}
}

func TestListAccountsProjection(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{Seed: 1})

	page, err := m.ListAccounts(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(page.Accounts) != 3 {
		t.Fatalf("accounts = %d, want 3", len(page.Accounts))
	}
	if page.RawFieldCount != 22 {
		t.Errorf("RawFieldCount = %d, want 22", page.RawFieldCount)
	}
	if page.ProjectedFieldCount != 3 {
		t.Errorf("ProjectedFieldCount = %d, want 3", page.ProjectedFieldCount)
	}
	for _, acct := range page.Accounts {
		if acct.LoanAccountID == "" || acct.TypeOfLoan == "" || acct.TenureMonths == 0 {
			t.Errorf("incomplete projection: %+v", acct)
		}
	}
}

func TestListAccountsFailureRate(t *testing.T) {
	t.Parallel()

	t.Run("always fails", func(t *testing.T) {
		t.Parallel()
		m := NewMock(MockConfig{FailureRate: 1, Seed: 1})
		_, err := m.ListAccounts(context.Background(), "9876543210")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("err = %v, want ErrUnavailable", err)
		}
	})

	t.Run("never fails", func(t *testing.T) {
		t.Parallel()
		m := NewMock(MockConfig{FailureRate: 0, Seed: 1})
		for i := 0; i < 20; i++ {
			if _, err := m.ListAccounts(context.Background(), "9876543210"); err != nil {
				t.Fatalf("iteration %d: %v", i, err)
			}
		}
	})
}

func TestLoanDetails(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{Seed: 1})

	detail, err := m.LoanDetails(context.Background(), "LA-20230415-001")
	if err != nil {
		t.Fatalf("LoanDetails: %v", err)
	}
	if detail.TypeOfLoan != "Home Loan" {
		t.Errorf("TypeOfLoan = %q", detail.TypeOfLoan)
	}
	if detail.EMIAmount <= 0 {
		t.Errorf("EMIAmount = %d", detail.EMIAmount)
	}

	// Returned pointer must not alias the fixture.
	detail.TypeOfLoan = "mutated"
	again, err := m.LoanDetails(context.Background(), "LA-20230415-001")
	if err != nil {
		t.Fatalf("LoanDetails: %v", err)
	}
	if again.TypeOfLoan != "Home Loan" {
		t.Errorf("fixture mutated through returned pointer")
	}
}

func TestLoanDetailsNotFound(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{Seed: 1})
	_, err := m.LoanDetails(context.Background(), "LA-00000000-999")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLatencyHonorsCancellation(t *testing.T) {
	t.Parallel()

	m := NewMock(MockConfig{MinLatency: time.Minute, MaxLatency: time.Minute, Seed: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.ListAccounts(ctx, "9876543210")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}
