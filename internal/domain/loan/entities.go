package loan

import (
	"errors"
	"time"

	"coopfund-service/internal/engine"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

var (
	ErrNotFound = errors.New("loan not found")
	// ErrInvalidLoanState rejects operations the loan's current status
	// forbids (paying a pending loan, approving an active one, ...).
	ErrInvalidLoanState = errors.New("operation not allowed in current loan state")
	// ErrAlreadyDecided distinguishes re-approving/re-rejecting a loan
	// that already left pending.
	ErrAlreadyDecided = errors.New("loan has already been approved or rejected")
)

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower_active" json:"borrower_id"`
	// Principal is fixed once the loan becomes active.
	Principal float64 `gorm:"type:decimal(18,2)" json:"principal"`
	// RatePercent is simple interest per month, locked at approval.
	RatePercent    float64 `gorm:"type:decimal(6,4);column:rate_percent" json:"rate_percent"`
	DurationMonths int     `gorm:"column:duration_months" json:"duration_months"`
	Status         Status  `gorm:"type:enum('pending','active','rejected','paid');default:'pending'" json:"status"`
	// StartDate is stamped from the approval date and anchors the
	// installment schedule; nil while pending.
	StartDate *time.Time `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	// RemainingPrincipal is a denormalized cache of principal minus
	// cumulative principal paid. Only the payment flow mutates it.
	RemainingPrincipal float64 `gorm:"type:decimal(18,2);column:remaining_principal" json:"remaining_principal"`
	// TotalTermInterest is precomputed at approval for audit display;
	// live interest is always derived from the schedule instead.
	TotalTermInterest float64        `gorm:"type:decimal(18,2);column:total_term_interest" json:"total_term_interest"`
	StatusUpdatedAt   time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Approve moves pending -> active: locks the final rate (which may
// override the rate requested at application), stamps StartDate from
// the approval date, and precomputes the audit interest figure.
func (l *Loan) Approve(ratePercent float64, approvedAt time.Time) error {
	if l.Status != StatusPending {
		if l.Status == StatusActive || l.Status == StatusRejected {
			return ErrAlreadyDecided
		}
		return ErrInvalidLoanState
	}
	start := approvedAt
	l.Status = StatusActive
	l.RatePercent = ratePercent
	l.StartDate = &start
	l.RemainingPrincipal = l.Principal
	l.TotalTermInterest = l.Principal * ratePercent / 100 * float64(l.DurationMonths)
	l.StatusUpdatedAt = time.Now().UTC()
	return nil
}

// Reject moves pending -> rejected. Terminal, no numeric side effects.
func (l *Loan) Reject() error {
	if l.Status != StatusPending {
		if l.Status == StatusActive || l.Status == StatusRejected {
			return ErrAlreadyDecided
		}
		return ErrInvalidLoanState
	}
	l.Status = StatusRejected
	l.StatusUpdatedAt = time.Now().UTC()
	return nil
}

// SettleIfPaid flips active -> paid once the cached remaining principal
// is within the settlement epsilon. Reports whether it fired.
func (l *Loan) SettleIfPaid() bool {
	if l.Status != StatusActive || !engine.Settled(l.RemainingPrincipal) {
		return false
	}
	l.Status = StatusPaid
	l.StatusUpdatedAt = time.Now().UTC()
	return true
}

// Terms projects the loan's static conditions for the engine. Only
// meaningful once the loan has a start date.
func (l *Loan) Terms() engine.Terms {
	var start time.Time
	if l.StartDate != nil {
		start = *l.StartDate
	}
	return engine.Terms{
		Principal:      l.Principal,
		RatePercent:    l.RatePercent,
		DurationMonths: l.DurationMonths,
		StartDate:      start,
	}
}
