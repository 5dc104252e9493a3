package engine

import "math"

// Allocation is the result of splitting one gross payment. The three
// paid columns always sum to the gross amount.
type Allocation struct {
	PenaltyPaid        float64
	InterestPaid       float64
	PrincipalPaid      float64
	RemainingPrincipal float64
}

// AllocatePayment splits gross across the outstanding buckets in fixed
// priority order: penalty (only when post-term), then the current
// cycle's interest, then principal. Higher buckets are exhausted before
// anything spills into the next.
//
// The current cycle's interest is half a month's simple interest on the
// remaining principal, since each installment column covers half a
// month under the bi-monthly split.
//
// RemainingPrincipal in the result floors at zero; an over-payment is
// still recorded in full on the principal column.
func AllocatePayment(t Terms, state DebtState, gross float64) (Allocation, error) {
	if gross <= 0 {
		return Allocation{}, ErrInvalidAmount
	}

	var a Allocation
	remainder := gross

	if state.IsPostTerm {
		a.PenaltyPaid = math.Min(remainder, state.PenaltyTotal)
		remainder -= a.PenaltyPaid
	}

	cycleInterestDue := state.RemainingPrincipal * t.RatePercent / 100 / 2
	a.InterestPaid = math.Min(remainder, cycleInterestDue)
	a.PrincipalPaid = remainder - a.InterestPaid

	a.RemainingPrincipal = state.RemainingPrincipal - a.PrincipalPaid
	if a.RemainingPrincipal < 0 {
		a.RemainingPrincipal = 0
	}
	return a, nil
}

// Settled reports whether a remaining-principal figure is close enough
// to zero for the loan to be considered fully repaid.
func Settled(remainingPrincipal float64) bool {
	return remainingPrincipal <= Epsilon
}
