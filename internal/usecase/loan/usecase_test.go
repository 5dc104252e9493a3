package loan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "coopfund-service/internal/domain/loan"
	domainPayment "coopfund-service/internal/domain/payment"
	"coopfund-service/internal/domain/uow"
	"coopfund-service/internal/engine"
	"coopfund-service/internal/testutil/loanmock"
	"coopfund-service/internal/testutil/paymentmock"
	"coopfund-service/internal/testutil/uowmock"

	"gorm.io/gorm"
)

const (
	borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	loanID     = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

func activeLoan(start time.Time) *domain.Loan {
	return &domain.Loan{
		ID:                 7,
		LoanID:             loanID,
		BorrowerID:         borrowerID,
		Principal:          5000,
		RatePercent:        10,
		DurationMonths:     6,
		Status:             domain.StatusActive,
		StartDate:          &start,
		RemainingPrincipal: 5000,
		TotalTermInterest:  3000,
	}
}

func TestApply_Success(t *testing.T) {
	loans := &loanmock.Repo{
		GetPendingByBorrowerIDFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := NewUsecase(loans, &paymentmock.Repo{}, uowmock.New())

	dto, err := uc.Apply(context.Background(), ApplyInput{
		BorrowerID: borrowerID, Principal: 5000, RatePercent: 8, DurationMonths: 6,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length = %d", len(dto.LoanID))
	}
	if dto.Status != string(domain.StatusPending) {
		t.Fatalf("status = %s, want pending", dto.Status)
	}
	if dto.RemainingPrincipal != 0 {
		t.Fatalf("RemainingPrincipal = %v before approval, want 0", dto.RemainingPrincipal)
	}
}

func TestApply_RejectsSecondPendingLoan(t *testing.T) {
	loans := &loanmock.Repo{
		GetPendingByBorrowerIDFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return &domain.Loan{LoanID: loanID, BorrowerID: borrowerID, Status: domain.StatusPending}, nil
		},
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			t.Fatal("Create must not be called when a pending loan exists")
			return nil
		},
	}
	uc := NewUsecase(loans, &paymentmock.Repo{}, uowmock.New())

	_, err := uc.Apply(context.Background(), ApplyInput{
		BorrowerID: borrowerID, Principal: 5000, RatePercent: 8, DurationMonths: 6,
	})
	if err == nil || !strings.Contains(err.Error(), "already has a pending loan") {
		t.Fatalf("err = %v, want pending-loan rejection", err)
	}
}

func TestApply_InvalidInput(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &paymentmock.Repo{}, uowmock.New())

	if _, err := uc.Apply(context.Background(), ApplyInput{BorrowerID: "short", Principal: 5000, DurationMonths: 6}); err == nil {
		t.Fatal("want error for malformed borrower id")
	}
	if _, err := uc.Apply(context.Background(), ApplyInput{BorrowerID: borrowerID, Principal: 0, DurationMonths: 6}); err == nil {
		t.Fatal("want error for zero principal")
	}
	if _, err := uc.Apply(context.Background(), ApplyInput{BorrowerID: borrowerID, Principal: 5000, DurationMonths: 0}); !errors.Is(err, engine.ErrInvalidTerm) {
		t.Fatalf("err = %v, want ErrInvalidTerm", err)
	}
}

func TestApprove_LocksRateAndStartDate(t *testing.T) {
	pending := &domain.Loan{
		ID: 7, LoanID: loanID, BorrowerID: borrowerID,
		Principal: 5000, RatePercent: 8, DurationMonths: 6,
		Status: domain.StatusPending,
	}
	var saved *domain.Loan
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return pending, nil
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error { saved = l; return nil },
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Payments: &paymentmock.Repo{}})
	uc := NewUsecase(loans, &paymentmock.Repo{}, tx)

	approvalDate := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	dto, err := uc.Approve(context.Background(), ApproveInput{LoanID: loanID, RatePercent: 10, ApprovalDate: approvalDate})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if saved == nil {
		t.Fatal("loan was not saved")
	}
	if dto.Status != string(domain.StatusActive) {
		t.Fatalf("status = %s, want active", dto.Status)
	}
	if dto.RatePercent != 10 {
		t.Fatalf("rate = %v, want admin override 10", dto.RatePercent)
	}
	if dto.StartDate == nil || !dto.StartDate.Equal(approvalDate) {
		t.Fatalf("StartDate = %v, want approval date", dto.StartDate)
	}
	if dto.TotalTermInterest != 3000 {
		t.Fatalf("TotalTermInterest = %v, want 3000", dto.TotalTermInterest)
	}
}

func TestApprove_NonPendingRejected(t *testing.T) {
	start := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return activeLoan(start), nil
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			t.Fatal("Save must not be called on a refused transition")
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Payments: &paymentmock.Repo{}})
	uc := NewUsecase(loans, &paymentmock.Repo{}, tx)

	_, err := uc.Approve(context.Background(), ApproveInput{LoanID: loanID, RatePercent: 10, ApprovalDate: start})
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("err = %v, want ErrAlreadyDecided", err)
	}
}

func TestApprove_NotFound(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Payments: &paymentmock.Repo{}})
	uc := NewUsecase(loans, &paymentmock.Repo{}, tx)

	_, err := uc.Approve(context.Background(), ApproveInput{LoanID: loanID, RatePercent: 10, ApprovalDate: time.Now()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReject_Success(t *testing.T) {
	pending := &domain.Loan{ID: 7, LoanID: loanID, Status: domain.StatusPending}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return pending, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Payments: &paymentmock.Repo{}})
	uc := NewUsecase(loans, &paymentmock.Repo{}, tx)

	dto, err := uc.Reject(context.Background(), loanID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status = %s, want rejected", dto.Status)
	}
}

func TestDebt_ReplaysLedger(t *testing.T) {
	start := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	l := activeLoan(start)
	l.RemainingPrincipal = 4550
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, id string) (*domain.Loan, error) { return l, nil },
	}
	payments := &paymentmock.Repo{
		ListByLoanIDFn: func(ctx context.Context, nid uint64) ([]domainPayment.Payment, error) {
			if nid != 7 {
				t.Fatalf("queried ledger for loan %d, want 7", nid)
			}
			return []domainPayment.Payment{
				{Amount: 700, PaidAt: time.Date(2023, time.November, 10, 0, 0, 0, 0, time.UTC), InterestPaid: 250, PrincipalPaid: 450},
			}, nil
		},
	}
	uc := NewUsecase(loans, payments, uowmock.New())

	dto, err := uc.Debt(context.Background(), loanID, time.Date(2023, time.November, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Debt: %v", err)
	}
	if dto.RemainingPrincipal != 4550 {
		t.Fatalf("RemainingPrincipal = %v, want 4550", dto.RemainingPrincipal)
	}
	if dto.TotalTermDebt != 8000 {
		t.Fatalf("TotalTermDebt = %v, want 8000", dto.TotalTermDebt)
	}
	// Two installments reached (250 each), 250 already collected.
	if dto.RemainingTermInterest != 250 {
		t.Fatalf("RemainingTermInterest = %v, want 250", dto.RemainingTermInterest)
	}
	if dto.IsPostTerm {
		t.Fatal("IsPostTerm inside the term")
	}
}

func TestDebt_RefusedForPendingLoan(t *testing.T) {
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return &domain.Loan{LoanID: loanID, Status: domain.StatusPending}, nil
		},
	}
	uc := NewUsecase(loans, &paymentmock.Repo{}, uowmock.New())

	if _, err := uc.Debt(context.Background(), loanID, time.Time{}); !errors.Is(err, domain.ErrInvalidLoanState) {
		t.Fatalf("err = %v, want ErrInvalidLoanState", err)
	}
}

func TestInstallments_ClassifiesSchedule(t *testing.T) {
	start := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	l := activeLoan(start)
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, id string) (*domain.Loan, error) { return l, nil },
	}
	uc := NewUsecase(loans, &paymentmock.Repo{}, uowmock.New())

	installments, err := uc.Installments(context.Background(), loanID, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Installments: %v", err)
	}
	if len(installments) != 12 {
		t.Fatalf("len = %d, want 12", len(installments))
	}
	if installments[0].Status != "overdue" || installments[1].Status != "overdue" {
		t.Fatalf("first two = %s/%s, want overdue/overdue", installments[0].Status, installments[1].Status)
	}
	if installments[2].Status != "upcoming" {
		t.Fatalf("third = %s, want upcoming", installments[2].Status)
	}
}

func TestReconcile_FlagsDrift(t *testing.T) {
	start := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	l := activeLoan(start)
	l.RemainingPrincipal = 4550
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, id string) (*domain.Loan, error) { return l, nil },
	}
	payments := &paymentmock.Repo{
		ListByLoanIDFn: func(ctx context.Context, nid uint64) ([]domainPayment.Payment, error) {
			return []domainPayment.Payment{{Amount: 700, PrincipalPaid: 450}}, nil
		},
	}
	uc := NewUsecase(loans, payments, uowmock.New())

	rec, err := uc.Reconcile(context.Background(), loanID)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !rec.InSync || rec.Drift != 0 {
		t.Fatalf("in-sync ledger reported drift: %+v", rec)
	}

	// Corrupt the cache; the fold should expose it.
	l.RemainingPrincipal = 4800
	rec, err = uc.Reconcile(context.Background(), loanID)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if rec.InSync || rec.Drift != 250 {
		t.Fatalf("corrupted cache not flagged: %+v", rec)
	}
}
