package engine

import "time"

type InstallmentStatus string

const (
	StatusPaid     InstallmentStatus = "paid"
	StatusOverdue  InstallmentStatus = "overdue"
	StatusUpcoming InstallmentStatus = "upcoming"
)

// Installment is one projected column of the repayment plan. Derived on
// demand, never persisted.
type Installment struct {
	Index            int
	DueDate          time.Time
	PrincipalPortion float64
	InterestPortion  float64
	TotalDue         float64
	Status           InstallmentStatus
}

// Classify projects the full schedule and labels each installment by
// comparing the cumulative amount required so far against the
// cumulative gross amount paid (not the interest/principal split). An
// installment counts as paid within Epsilon; an unpaid one is overdue
// once its due date is behind now, upcoming otherwise.
//
// The result is recomputed fresh from the inputs on every call.
func Classify(t Terms, ledger []LedgerEntry, now time.Time) ([]Installment, error) {
	dates, err := InstallmentDates(t.StartDate, t.InstallmentCount())
	if err != nil {
		return nil, err
	}

	count := float64(t.InstallmentCount())
	installmentAmount := t.InstallmentAmount()
	principalPortion := t.Principal / count
	interestPortion := t.TotalTermInterest() / count

	var totalPaid float64
	for _, e := range ledger {
		totalPaid += e.Amount
	}

	today := dateOnly(now)
	out := make([]Installment, 0, len(dates))
	var cumulativeRequired float64
	for i, due := range dates {
		cumulativeRequired += installmentAmount

		status := StatusUpcoming
		switch {
		case totalPaid >= cumulativeRequired-Epsilon:
			status = StatusPaid
		case due.Before(today):
			status = StatusOverdue
		}

		out = append(out, Installment{
			Index:            i + 1,
			DueDate:          due,
			PrincipalPortion: principalPortion,
			InterestPortion:  interestPortion,
			TotalDue:         installmentAmount,
			Status:           status,
		})
	}
	return out, nil
}
