package domain

import "time"

type LoanStatus string

const (
	LoanPending   LoanStatus = "pending"
	LoanApproved  LoanStatus = "approved"
	LoanRejected  LoanStatus = "rejected"
	LoanDisbursed LoanStatus = "disbursed"
)

func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(s) {
	case LoanPending, LoanApproved, LoanRejected, LoanDisbursed:
		return LoanStatus(s), true
	}
	return "", false
}

// Applications move pending -> approved/rejected -> disbursed; pending is
// initial only and disbursement is terminal.
var loanStatusFrom = map[LoanStatus][]LoanStatus{
	LoanApproved:  {LoanPending},
	LoanRejected:  {LoanPending},
	LoanDisbursed: {LoanApproved},
}

// LoanStatusPrecursors returns the statuses an application must currently be
// in to move to the given status. An empty result means the move is never
// allowed.
func LoanStatusPrecursors(to LoanStatus) []LoanStatus {
	return loanStatusFrom[to]
}

type LoanProduct struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description" json:"description"`
	MinAmount    float64   `bson:"min_amount" json:"min_amount"`
	MaxAmount    float64   `bson:"max_amount" json:"max_amount"`
	InterestRate float64   `bson:"interest_rate" json:"interest_rate"`
	TermMonths   int       `bson:"term_months" json:"term_months"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

type LoanApplication struct {
	ID            string     `bson:"_id" json:"id"`
	UserID        string     `bson:"user_id" json:"user_id"`
	LoanProductID string     `bson:"loan_product_id" json:"loan_product_id"`
	Amount        float64    `bson:"amount" json:"amount"`
	Purpose       string     `bson:"purpose" json:"purpose"`
	Status        LoanStatus `bson:"status" json:"status"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type InvestmentProduct struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description" json:"description"`
	MinInvestment  float64   `bson:"min_investment" json:"min_investment"`
	ExpectedReturn float64   `bson:"expected_return" json:"expected_return"`
	RiskLevel      RiskLevel `bson:"risk_level" json:"risk_level"`
	DurationMonths int       `bson:"duration_months" json:"duration_months"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

type InvestmentStatus string

const (
	InvestmentActive    InvestmentStatus = "active"
	InvestmentCompleted InvestmentStatus = "completed"
	InvestmentCancelled InvestmentStatus = "cancelled"
)

type Investment struct {
	ID                  string           `bson:"_id" json:"id"`
	UserID              string           `bson:"user_id" json:"user_id"`
	InvestmentProductID string           `bson:"investment_product_id" json:"investment_product_id"`
	Amount              float64          `bson:"amount" json:"amount"`
	Status              InvestmentStatus `bson:"status" json:"status"`
	CreatedAt           time.Time        `bson:"created_at" json:"created_at"`
}

type TransactionType string

const (
	TxDeposit       TransactionType = "deposit"
	TxWithdrawal    TransactionType = "withdrawal"
	TxDisbursement  TransactionType = "loan_disbursement"
	TxLoanRepayment TransactionType = "loan_repayment"
	TxInvestment    TransactionType = "investment"
	TxReturn        TransactionType = "return"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

type Transaction struct {
	ID          string            `bson:"_id" json:"id"`
	UserID      string            `bson:"user_id" json:"user_id"`
	Type        TransactionType   `bson:"type" json:"type"`
	Amount      float64           `bson:"amount" json:"amount"`
	Status      TransactionStatus `bson:"status" json:"status"`
	Description string            `bson:"description" json:"description"`
	CreatedAt   time.Time         `bson:"created_at" json:"created_at"`
}
