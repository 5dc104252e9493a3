package engine

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInstallmentDates_AnchorBeforeFirstCutoff(t *testing.T) {
	// Approved 2023-10-01 (day <= 10): first due 2023-11-10, then
	// 2023-11-25, then 2023-12-10.
	dates, err := InstallmentDates(date(2023, time.October, 1), 3)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	want := []time.Time{
		date(2023, time.November, 10),
		date(2023, time.November, 25),
		date(2023, time.December, 10),
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestInstallmentDates_AnchorBetweenCutoffs(t *testing.T) {
	dates, err := InstallmentDates(date(2023, time.October, 15), 2)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	if !dates[0].Equal(date(2023, time.November, 25)) {
		t.Fatalf("first due = %v, want 2023-11-25", dates[0])
	}
	if !dates[1].Equal(date(2023, time.December, 10)) {
		t.Fatalf("second due = %v, want 2023-12-10", dates[1])
	}
}

func TestInstallmentDates_AnchorPastSecondCutoff(t *testing.T) {
	// Day > 25 skips the immediately-following month entirely: the
	// first due date is the 10th two months out.
	dates, err := InstallmentDates(date(2023, time.October, 28), 2)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	if !dates[0].Equal(date(2023, time.December, 10)) {
		t.Fatalf("first due = %v, want 2023-12-10", dates[0])
	}
	if !dates[1].Equal(date(2023, time.December, 25)) {
		t.Fatalf("second due = %v, want 2023-12-25", dates[1])
	}
}

func TestInstallmentDates_YearRollover(t *testing.T) {
	dates, err := InstallmentDates(date(2023, time.December, 5), 3)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	want := []time.Time{
		date(2024, time.January, 10),
		date(2024, time.January, 25),
		date(2024, time.February, 10),
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}
}

func TestInstallmentDates_RolloverFromLateDecember(t *testing.T) {
	dates, err := InstallmentDates(date(2023, time.December, 30), 1)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	if !dates[0].Equal(date(2024, time.February, 10)) {
		t.Fatalf("first due = %v, want 2024-02-10", dates[0])
	}
}

func TestInstallmentDates_StrictlyIncreasingAndAlternating(t *testing.T) {
	anchors := []time.Time{
		date(2023, time.January, 1),
		date(2023, time.January, 10),
		date(2023, time.January, 11),
		date(2023, time.January, 25),
		date(2023, time.January, 26),
		date(2023, time.June, 30),
		date(2024, time.February, 29),
	}
	for _, anchor := range anchors {
		dates, err := InstallmentDates(anchor, 24)
		if err != nil {
			t.Fatalf("anchor %v: %v", anchor, err)
		}
		for i, d := range dates {
			if d.Day() != firstCutoffDay && d.Day() != secondCutoffDay {
				t.Fatalf("anchor %v: dates[%d]=%v not on a collection day", anchor, i, d)
			}
			if i == 0 {
				continue
			}
			if !dates[i-1].Before(d) {
				t.Fatalf("anchor %v: dates[%d]=%v not after dates[%d]=%v", anchor, i, d, i-1, dates[i-1])
			}
			if dates[i-1].Day() == d.Day() {
				t.Fatalf("anchor %v: dates[%d] and dates[%d] both on the %dth", anchor, i-1, i, d.Day())
			}
		}
	}
}

func TestInstallmentDates_NoTimeOfDay(t *testing.T) {
	anchor := time.Date(2023, time.October, 1, 17, 42, 9, 120, time.UTC)
	dates, err := InstallmentDates(anchor, 2)
	if err != nil {
		t.Fatalf("InstallmentDates: %v", err)
	}
	for i, d := range dates {
		h, m, s := d.Clock()
		if h != 0 || m != 0 || s != 0 || d.Nanosecond() != 0 {
			t.Fatalf("dates[%d]=%v carries a time-of-day component", i, d)
		}
	}
}

func TestInstallmentDates_InvalidCount(t *testing.T) {
	for _, count := range []int{0, -1, -12} {
		if _, err := InstallmentDates(date(2023, time.October, 1), count); !errors.Is(err, ErrInvalidTerm) {
			t.Fatalf("count=%d: err = %v, want ErrInvalidTerm", count, err)
		}
	}
}

func TestFinalDueDate(t *testing.T) {
	terms := Terms{Principal: 5000, RatePercent: 10, DurationMonths: 6, StartDate: date(2023, time.October, 1)}
	final, err := FinalDueDate(terms)
	if err != nil {
		t.Fatalf("FinalDueDate: %v", err)
	}
	// 12 installments from 2023-11-10: the last lands on 2024-04-25.
	if !final.Equal(date(2024, time.April, 25)) {
		t.Fatalf("final due = %v, want 2024-04-25", final)
	}
}
