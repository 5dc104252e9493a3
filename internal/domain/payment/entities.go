package payment

import (
	"time"

	"coopfund-service/internal/engine"
)

// Payment is one append-only ledger row. Rows are never updated or
// deleted; all derived debt figures must be reproducible by refolding
// the ordered payment list against the loan's terms.
//
// Penalty collections are logged as their own column rather than folded
// into interest, so PenaltyPaid + InterestPaid + PrincipalPaid always
// equals Amount.
type Payment struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PaymentID string `gorm:"column:payment_id;type:char(32);not null;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	// FK to loans.id (numeric).
	LoanID        uint64    `gorm:"column:loan_id;not null;index:idx_payments_loan" json:"-"`
	Amount        float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PaidAt        time.Time `gorm:"column:paid_at;type:date;not null" json:"paid_at"`
	PenaltyPaid   float64   `gorm:"column:penalty_paid;type:decimal(18,2);not null" json:"penalty_paid"`
	InterestPaid  float64   `gorm:"column:interest_paid;type:decimal(18,2);not null" json:"interest_paid"`
	PrincipalPaid float64   `gorm:"column:principal_paid;type:decimal(18,2);not null" json:"principal_paid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// Ledger converts persisted rows into the engine's input shape.
func Ledger(rows []Payment) []engine.LedgerEntry {
	out := make([]engine.LedgerEntry, 0, len(rows))
	for _, p := range rows {
		out = append(out, engine.LedgerEntry{
			Amount:        p.Amount,
			PaidAt:        p.PaidAt,
			PenaltyPaid:   p.PenaltyPaid,
			InterestPaid:  p.InterestPaid,
			PrincipalPaid: p.PrincipalPaid,
		})
	}
	return out
}
