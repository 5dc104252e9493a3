package payment

import "time"

type ApplyInput struct {
	LoanID string
	Amount float64
	// PaidAt is the value date of the payment; zero means now. Debt
	// state (and any penalty) is evaluated as of this date.
	PaidAt time.Time
}

// ReceiptDTO echoes how one gross payment was split and where the loan
// stands afterwards.
type ReceiptDTO struct {
	PaymentID          string    `json:"payment_id"`
	LoanID             string    `json:"loan_id"`
	Amount             float64   `json:"amount"`
	PaidAt             time.Time `json:"paid_at"`
	PenaltyPaid        float64   `json:"penalty_paid"`
	InterestPaid       float64   `json:"interest_paid"`
	PrincipalPaid      float64   `json:"principal_paid"`
	RemainingPrincipal float64   `json:"remaining_principal"`
	LoanStatus         string    `json:"loan_status"`
}

type PaymentDTO struct {
	PaymentID     string    `json:"payment_id"`
	Amount        float64   `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
	PenaltyPaid   float64   `json:"penalty_paid"`
	InterestPaid  float64   `json:"interest_paid"`
	PrincipalPaid float64   `json:"principal_paid"`
}
