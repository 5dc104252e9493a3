package engine

import "time"

// Collection days. Members settle on payroll dates, so dues land only
// on the 10th or the 25th of a month.
const (
	firstCutoffDay  = 10
	secondCutoffDay = 25
)

// InstallmentDates returns the ordered due dates for count bi-monthly
// installments anchored at the disbursement date. The first installment
// falls in the month after the anchor month (one full month of grace),
// snapped to whichever collection day comes next:
//
//   - anchor day <= 10: the 10th, one month out
//   - anchor day <= 25: the 25th, one month out
//   - anchor day  > 25: the 10th, two months out (the anchor is already
//     past both cutoffs of the following month)
//
// From there dates alternate 10th -> 25th within a month, then roll to
// the 10th of the next month. Returned values are calendar dates
// (midnight, anchor's location); December overflow rolls the year.
func InstallmentDates(anchor time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return nil, ErrInvalidTerm
	}

	year, month, day := anchor.Date()
	loc := anchor.Location()

	var first time.Time
	switch {
	case day <= firstCutoffDay:
		first = time.Date(year, month+1, firstCutoffDay, 0, 0, 0, 0, loc)
	case day <= secondCutoffDay:
		first = time.Date(year, month+1, secondCutoffDay, 0, 0, 0, 0, loc)
	default:
		first = time.Date(year, month+2, firstCutoffDay, 0, 0, 0, 0, loc)
	}

	dates := make([]time.Time, 0, count)
	cur := first
	for i := 0; i < count; i++ {
		dates = append(dates, cur)
		if cur.Day() == firstCutoffDay {
			cur = time.Date(cur.Year(), cur.Month(), secondCutoffDay, 0, 0, 0, 0, loc)
		} else {
			cur = time.Date(cur.Year(), cur.Month()+1, firstCutoffDay, 0, 0, 0, 0, loc)
		}
	}
	return dates, nil
}

// FinalDueDate is the due date of the last installment of the term.
func FinalDueDate(t Terms) (time.Time, error) {
	dates, err := InstallmentDates(t.StartDate, t.InstallmentCount())
	if err != nil {
		return time.Time{}, err
	}
	return dates[len(dates)-1], nil
}
