package engine

import "time"

// DebtState is the full picture of what a borrower owes at a point in
// time, reconstructed from the loan terms and the payment ledger.
type DebtState struct {
	RemainingPrincipal    float64
	RemainingTermInterest float64
	InstallmentAmount     float64
	TotalTermDebt         float64
	IsPostTerm            bool
	MonthsOverdue         int
	PenaltyTotal          float64
}

// ComputeDebtState derives the debt position as of now.
//
// remainingPrincipal is the loan's cached figure (principal minus
// cumulative principal paid); ReconcilePrincipal recomputes it from the
// ledger when the cache is suspect.
//
// Interest accrues stepwise: each installment's interest portion is
// owed once its due date is reached, and interest already collected is
// netted off. The loan is post-term once now is strictly past the final
// due date with principal still outstanding; from then on a 10% base
// penalty applies, surcharged by 10% of that base per whole month
// overdue, net of penalty already collected.
func ComputeDebtState(t Terms, remainingPrincipal float64, ledger []LedgerEntry, now time.Time) (DebtState, error) {
	if t.DurationMonths <= 0 {
		return DebtState{}, ErrInvalidTerm
	}

	dates, err := InstallmentDates(t.StartDate, t.InstallmentCount())
	if err != nil {
		return DebtState{}, err
	}

	today := dateOnly(now)
	interestPerInstallment := t.TotalTermInterest() / float64(t.InstallmentCount())

	var accrued float64
	for _, due := range dates {
		if due.After(today) {
			break
		}
		accrued += interestPerInstallment
	}

	var interestPaid, penaltyPaid float64
	for _, e := range ledger {
		interestPaid += e.InterestPaid
		penaltyPaid += e.PenaltyPaid
	}

	remInterest := accrued - interestPaid
	if remInterest < 0 {
		remInterest = 0
	}

	state := DebtState{
		RemainingPrincipal:    remainingPrincipal,
		RemainingTermInterest: remInterest,
		InstallmentAmount:     t.InstallmentAmount(),
		TotalTermDebt:         t.TotalTermDebt(),
	}

	finalDue := dates[len(dates)-1]
	if today.After(finalDue) && remainingPrincipal > Epsilon {
		state.IsPostTerm = true
		state.MonthsOverdue = wholeMonthsBetween(finalDue, today)

		base := t.Principal * basePenaltyRate
		penalty := base + base*monthlySurcharge*float64(state.MonthsOverdue)
		penalty -= penaltyPaid
		if penalty < 0 {
			penalty = 0
		}
		state.PenaltyTotal = penalty
	}

	return state, nil
}

// ReconcilePrincipal refolds the ledger into a remaining-principal
// figure, ignoring the loan's cached value. Floors at zero.
func ReconcilePrincipal(t Terms, ledger []LedgerEntry) float64 {
	remaining := t.Principal
	for _, e := range ledger {
		remaining -= e.PrincipalPaid
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// PrincipalDrift reports how far the cached remaining principal has
// drifted from the ledger-derived figure. Anything beyond Epsilon means
// the cache and the ledger disagree.
func PrincipalDrift(cached float64, t Terms, ledger []LedgerEntry) float64 {
	return cached - ReconcilePrincipal(t, ledger)
}

// wholeMonthsBetween counts fully elapsed calendar months from one date
// to a later date (floor-rounded, never negative). Both bounds fall on
// collection days, so AddDate never normalizes past a short month.
func wholeMonthsBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	months := 0
	for cur := from.AddDate(0, 1, 0); !cur.After(to); cur = cur.AddDate(0, 1, 0) {
		months++
	}
	return months
}
