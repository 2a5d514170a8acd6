package gateway

import "github.com/yellowbank/loanchat/internal/domain"

// rawAccount mirrors the token-heavy backend record. The conversation only
// ever sees the projected view; the rest of the fields exist so the projection
// disclosure counts something real.
type rawAccount struct {
	LoanAccountID      string
	TypeOfLoan         string
	TenureMonths       int
	InternalBankCode   string
	AuditDate          string
	BranchCode         string
	ProductCode        string
	SchemeCode         string
	DisbursementDate   string
	MaturityDate       string
	ProcessingFee      int64
	InsurancePremium   int64
	EMIAmount          int64
	OverdueAmount      int64
	LastPaymentDate    string
	NextPaymentDate    string
	PaymentMode        string
	CollateralType     string
	CollateralValue    int64
	RiskCategory       string
	NPAStatus          string
	CIBILScoreAtOrigin int
}

// Field counts backing the projection disclosure.
const (
	rawAccountFieldCount = 22
	projectedFieldCount  = 3
)

var rawAccounts = []rawAccount{
	{
		LoanAccountID:      "LA-20230415-001",
		TypeOfLoan:         "Home Loan",
		TenureMonths:       240,
		InternalBankCode:   "HL-PREM-2023-Q2",
		AuditDate:          "2024-12-15T10:30:00Z",
		BranchCode:         "BR-MUM-042",
		ProductCode:        "PROD-HL-001",
		SchemeCode:         "SCH-HL-FLOAT-2023",
		DisbursementDate:   "2023-04-15",
		MaturityDate:       "2043-04-15",
		ProcessingFee:      15000,
		InsurancePremium:   45000,
		EMIAmount:          52340,
		OverdueAmount:      0,
		LastPaymentDate:    "2025-01-05",
		NextPaymentDate:    "2025-02-05",
		PaymentMode:        "AUTO_DEBIT",
		CollateralType:     "RESIDENTIAL_PROPERTY",
		CollateralValue:    8500000,
		RiskCategory:       "LOW",
		NPAStatus:          "STANDARD",
		CIBILScoreAtOrigin: 782,
	},
	{
		LoanAccountID:      "LA-20240110-002",
		TypeOfLoan:         "Personal Loan",
		TenureMonths:       36,
		InternalBankCode:   "PL-STD-2024-Q1",
		AuditDate:          "2024-11-20T14:00:00Z",
		BranchCode:         "BR-DEL-018",
		ProductCode:        "PROD-PL-003",
		SchemeCode:         "SCH-PL-FIXED-2024",
		DisbursementDate:   "2024-01-10",
		MaturityDate:       "2027-01-10",
		ProcessingFee:      5000,
		InsurancePremium:   8000,
		EMIAmount:          18750,
		OverdueAmount:      0,
		LastPaymentDate:    "2025-01-10",
		NextPaymentDate:    "2025-02-10",
		PaymentMode:        "NACH",
		CollateralType:     "NONE",
		CollateralValue:    0,
		RiskCategory:       "MEDIUM",
		NPAStatus:          "STANDARD",
		CIBILScoreAtOrigin: 745,
	},
	{
		LoanAccountID:      "LA-20220830-003",
		TypeOfLoan:         "Car Loan",
		TenureMonths:       60,
		InternalBankCode:   "CL-AUTO-2022-Q3",
		AuditDate:          "2024-10-01T09:15:00Z",
		BranchCode:         "BR-BLR-007",
		ProductCode:        "PROD-CL-002",
		SchemeCode:         "SCH-CL-FIXED-2022",
		DisbursementDate:   "2022-08-30",
		MaturityDate:       "2027-08-30",
		ProcessingFee:      8000,
		InsurancePremium:   22000,
		EMIAmount:          14200,
		OverdueAmount:      14200,
		LastPaymentDate:    "2024-12-30",
		NextPaymentDate:    "2025-01-30",
		PaymentMode:        "ECS",
		CollateralType:     "VEHICLE",
		CollateralValue:    650000,
		RiskCategory:       "MEDIUM",
		NPAStatus:          "STANDARD",
		CIBILScoreAtOrigin: 710,
	},
}

var loanDetails = map[string]domain.LoanDetail{
	"LA-20230415-001": {
		LoanAccountID:    "LA-20230415-001",
		TypeOfLoan:       "Home Loan",
		TenureMonths:     240,
		InterestRate:     8.5,
		PrincipalPending: 4850000,
		InterestPending:  320000,
		Nominee:          "Priya Sharma",
		EMIAmount:        52340,
		NextPaymentDate:  "2025-02-05",
	},
	"LA-20240110-002": {
		LoanAccountID:    "LA-20240110-002",
		TypeOfLoan:       "Personal Loan",
		TenureMonths:     36,
		InterestRate:     12.5,
		PrincipalPending: 425000,
		InterestPending:  38000,
		Nominee:          "Rahul Kumar",
		EMIAmount:        18750,
		NextPaymentDate:  "2025-02-10",
	},
	"LA-20220830-003": {
		LoanAccountID:    "LA-20220830-003",
		TypeOfLoan:       "Car Loan",
		TenureMonths:     60,
		InterestRate:     9.25,
		PrincipalPending: 280000,
		InterestPending:  18500,
		Nominee:          "Anita Desai",
		EMIAmount:        14200,
		NextPaymentDate:  "2025-01-30",
	},
}
