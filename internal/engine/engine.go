// Package engine implements the cooperative fund's amortization math:
// bi-monthly installment schedules, live interest accrual, post-term
// penalties, and the cascade that splits an incoming payment across
// penalty, interest, and principal.
//
// Everything here is a pure function over the loan's terms and its
// payment ledger. Callers pass the evaluation time explicitly; the
// package never reads the clock, touches storage, or keeps state.
package engine

import (
	"errors"
	"time"
)

// Epsilon absorbs float drift from repeated division when deciding
// whether an installment (or the whole loan) is fully settled.
const Epsilon = 0.1

// Penalty terms once a loan runs past its final due date: a one-time
// 10% of principal, plus 10% of that base again per whole month overdue.
const (
	basePenaltyRate  = 0.10
	monthlySurcharge = 0.10
)

var (
	// ErrInvalidAmount signals a non-positive payment amount.
	ErrInvalidAmount = errors.New("engine: payment amount must be positive")
	// ErrInvalidTerm signals a non-positive duration or installment count.
	ErrInvalidTerm = errors.New("engine: term must be positive")
)

// Terms are the static conditions of an active loan. StartDate anchors
// the installment schedule and is expected to be a calendar date
// (midnight, any location).
type Terms struct {
	Principal      float64
	RatePercent    float64 // simple interest, percent of principal per month
	DurationMonths int
	StartDate      time.Time
}

// InstallmentCount is the number of bi-monthly columns over the term.
func (t Terms) InstallmentCount() int { return t.DurationMonths * 2 }

// TotalTermInterest is the simple (non-compounding) interest owed over
// the whole term: rate% of principal per month of duration.
func (t Terms) TotalTermInterest() float64 {
	return t.Principal * t.RatePercent / 100 * float64(t.DurationMonths)
}

// TotalTermDebt is principal plus total term interest.
func (t Terms) TotalTermDebt() float64 { return t.Principal + t.TotalTermInterest() }

// InstallmentAmount is the flat amount due per bi-monthly installment.
func (t Terms) InstallmentAmount() float64 {
	return t.TotalTermDebt() / float64(t.InstallmentCount())
}

// LedgerEntry is one immutable payment as the engine sees it. The three
// allocation columns sum to Amount.
type LedgerEntry struct {
	Amount        float64
	PaidAt        time.Time
	PenaltyPaid   float64
	InterestPaid  float64
	PrincipalPaid float64
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
