package loan

import "time"

type ApplyInput struct {
	BorrowerID string  `json:"borrower_id"`
	Principal  float64 `json:"principal"`
	// RatePercent is the rate the member asks for; the final rate is
	// whatever the administrator sets at approval.
	RatePercent    float64 `json:"rate_percent"`
	DurationMonths int     `json:"duration_months"`
}

type ApproveInput struct {
	LoanID      string
	RatePercent float64
	// ApprovalDate becomes the loan's start date and anchors the
	// installment schedule.
	ApprovalDate time.Time
}

type LoanDTO struct {
	LoanID             string     `json:"loan_id"`
	BorrowerID         string     `json:"borrower_id"`
	Principal          float64    `json:"principal"`
	RatePercent        float64    `json:"rate_percent"`
	DurationMonths     int        `json:"duration_months"`
	Status             string     `json:"status"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	RemainingPrincipal float64    `json:"remaining_principal"`
	TotalTermInterest  float64    `json:"total_term_interest"`
	CreatedAt          time.Time  `json:"created_at"`
}

type DebtDTO struct {
	LoanID                string  `json:"loan_id"`
	RemainingPrincipal    float64 `json:"remaining_principal"`
	RemainingTermInterest float64 `json:"remaining_term_interest"`
	InstallmentAmount     float64 `json:"installment_amount"`
	TotalTermDebt         float64 `json:"total_term_debt"`
	IsPostTerm            bool    `json:"is_post_term"`
	MonthsOverdue         int     `json:"months_overdue"`
	PenaltyTotal          float64 `json:"penalty_total"`
}

type InstallmentDTO struct {
	Index            int       `json:"index"`
	DueDate          time.Time `json:"due_date"`
	PrincipalPortion float64   `json:"principal_portion"`
	InterestPortion  float64   `json:"interest_portion"`
	TotalDue         float64   `json:"total_due"`
	Status           string    `json:"status"`
}

// ReconcileDTO reports whether the cached remaining principal still
// matches a fresh fold over the payment ledger.
type ReconcileDTO struct {
	LoanID             string  `json:"loan_id"`
	CachedRemaining    float64 `json:"cached_remaining"`
	LedgerRemaining    float64 `json:"ledger_remaining"`
	Drift              float64 `json:"drift"`
	InSync             bool    `json:"in_sync"`
	PaymentsConsidered int     `json:"payments_considered"`
}
