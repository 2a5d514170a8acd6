package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/yellowbank/loanchat/internal/domain"
)

// otpPool is the fixed candidate pool codes are drawn from.
var otpPool = []int{1234, 5678, 7889, 1209}

var nonDigits = regexp.MustCompile(`\D`)

// MockConfig tunes the simulated backend.
type MockConfig struct {
	// FailureRate is the probability that ListAccounts fails transiently.
	FailureRate float64
	// MinLatency and MaxLatency bound the simulated per-call latency.
	// Zero values disable the delay, which tests rely on.
	MinLatency time.Duration
	MaxLatency time.Duration
	// Seed makes the mock deterministic when non-zero.
	Seed int64
}

// Mock simulates the bank backend with fixture data. Safe for concurrent use.
type Mock struct {
	cfg MockConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a simulated backend gateway.
func NewMock(cfg MockConfig) *Mock {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Mock{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// IssueOTP validates the phone and DOB and draws a code from the fixed pool.
func (m *Mock) IssueOTP(ctx context.Context, phone, dob string) (int, error) {
	if err := m.sleep(ctx); err != nil {
		return 0, err
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return 0, fmt.Errorf("issue otp: %w", ErrInvalidPhone)
	}
	if len(strings.TrimSpace(dob)) < 6 {
		return 0, fmt.Errorf("issue otp: %w", ErrInvalidDOB)
	}

	m.mu.Lock()
	code := otpPool[m.rng.Intn(len(otpPool))]
	m.mu.Unlock()
	return code, nil
}

// ListAccounts projects the raw account fixtures down to the fields the
// conversation needs and reports how many fields were filtered out. It fails
// transiently at the configured rate, independent of input.
func (m *Mock) ListAccounts(ctx context.Context, _ string) (AccountPage, error) {
	if err := m.sleep(ctx); err != nil {
		return AccountPage{}, err
	}

	m.mu.Lock()
	failed := m.rng.Float64() < m.cfg.FailureRate
	m.mu.Unlock()
	if failed {
		return AccountPage{}, fmt.Errorf("list accounts: %w", ErrUnavailable)
	}

	projected := make([]domain.ProjectedAccount, 0, len(rawAccounts))
	for _, raw := range rawAccounts {
		projected = append(projected, domain.ProjectedAccount{
			LoanAccountID: raw.LoanAccountID,
			TypeOfLoan:    raw.TypeOfLoan,
			TenureMonths:  raw.TenureMonths,
		})
	}

	return AccountPage{
		Accounts:            projected,
		RawFieldCount:       rawAccountFieldCount,
		ProjectedFieldCount: projectedFieldCount,
	}, nil
}

// LoanDetails returns the detail fixture for an account id.
func (m *Mock) LoanDetails(ctx context.Context, accountID string) (*domain.LoanDetail, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	detail, ok := loanDetails[accountID]
	if !ok {
		return nil, fmt.Errorf("loan details %q: %w", accountID, ErrNotFound)
	}
	copied := detail
	return &copied, nil
}

// sleep simulates backend latency, honoring cancellation.
func (m *Mock) sleep(ctx context.Context) error {
	if m.cfg.MaxLatency <= 0 {
		return ctx.Err()
	}

	delay := m.cfg.MinLatency
	if jitter := m.cfg.MaxLatency - m.cfg.MinLatency; jitter > 0 {
		m.mu.Lock()
		delay += time.Duration(m.rng.Int63n(int64(jitter)))
		m.mu.Unlock()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
