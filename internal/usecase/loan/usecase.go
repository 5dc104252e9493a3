package loan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	domain "coopfund-service/internal/domain/loan"
	domainPayment "coopfund-service/internal/domain/payment"
	"coopfund-service/internal/domain/uow"
	"coopfund-service/internal/engine"
	"coopfund-service/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	loans    domain.Repository
	payments domainPayment.Repository
	uow      uow.UnitOfWork
}

func NewUsecase(loans domain.Repository, payments domainPayment.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, payments: payments, uow: tx}
}

// Apply files a new loan request in pending state. A borrower can have
// at most one pending request at a time.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if !id.Valid(in.BorrowerID) || in.Principal <= 0 {
		return nil, errors.New("invalid input")
	}
	if in.DurationMonths <= 0 {
		return nil, engine.ErrInvalidTerm
	}

	pending, err := u.loans.GetPendingByBorrowerID(ctx, in.BorrowerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("borrower %s already has a pending loan: %s", in.BorrowerID, pending.LoanID)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	l := &domain.Loan{
		LoanID:          id.NewID32(),
		BorrowerID:      in.BorrowerID,
		Principal:       in.Principal,
		RatePercent:     in.RatePercent,
		DurationMonths:  in.DurationMonths,
		Status:          domain.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

// Approve locks the final rate and disburses the loan, anchoring the
// repayment schedule at the approval date. Runs inside a loan-locking
// transaction so a concurrent decision can't slip in.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.Approve(in.RatePercent, in.ApprovalDate.UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Reject(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.Reject(); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Debt reconstructs the live debt position as of asOf (zero means now).
func (u *Usecase) Debt(ctx context.Context, loanID string, asOf time.Time) (*DebtDTO, error) {
	l, rows, err := u.loanWithLedger(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	state, err := engine.ComputeDebtState(l.Terms(), l.RemainingPrincipal, domainPayment.Ledger(rows), asOf)
	if err != nil {
		return nil, err
	}
	return &DebtDTO{
		LoanID:                l.LoanID,
		RemainingPrincipal:    state.RemainingPrincipal,
		RemainingTermInterest: state.RemainingTermInterest,
		InstallmentAmount:     state.InstallmentAmount,
		TotalTermDebt:         state.TotalTermDebt,
		IsPostTerm:            state.IsPostTerm,
		MonthsOverdue:         state.MonthsOverdue,
		PenaltyTotal:          state.PenaltyTotal,
	}, nil
}

// Installments projects the full repayment plan with per-installment
// paid/overdue/upcoming labels as of asOf (zero means now).
func (u *Usecase) Installments(ctx context.Context, loanID string, asOf time.Time) ([]InstallmentDTO, error) {
	l, rows, err := u.loanWithLedger(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	installments, err := engine.Classify(l.Terms(), domainPayment.Ledger(rows), asOf)
	if err != nil {
		return nil, err
	}
	out := make([]InstallmentDTO, 0, len(installments))
	for _, ins := range installments {
		out = append(out, InstallmentDTO{
			Index:            ins.Index,
			DueDate:          ins.DueDate,
			PrincipalPortion: ins.PrincipalPortion,
			InterestPortion:  ins.InterestPortion,
			TotalDue:         ins.TotalDue,
			Status:           string(ins.Status),
		})
	}
	return out, nil
}

// Reconcile refolds the payment ledger and compares it against the
// loan's cached remaining principal, flagging drift beyond the
// settlement epsilon.
func (u *Usecase) Reconcile(ctx context.Context, loanID string) (*ReconcileDTO, error) {
	l, rows, err := u.loanWithLedger(ctx, loanID)
	if err != nil {
		return nil, err
	}
	ledger := domainPayment.Ledger(rows)
	recomputed := engine.ReconcilePrincipal(l.Terms(), ledger)
	drift := engine.PrincipalDrift(l.RemainingPrincipal, l.Terms(), ledger)
	return &ReconcileDTO{
		LoanID:             l.LoanID,
		CachedRemaining:    l.RemainingPrincipal,
		LedgerRemaining:    recomputed,
		Drift:              drift,
		InSync:             math.Abs(drift) <= engine.Epsilon,
		PaymentsConsidered: len(rows),
	}, nil
}

// loanWithLedger loads an anchored loan (active or paid) and its full
// payment history. Pending and rejected loans have no schedule yet, so
// engine-backed views are refused for them.
func (u *Usecase) loanWithLedger(ctx context.Context, loanID string) (*domain.Loan, []domainPayment.Payment, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if l.Status != domain.StatusActive && l.Status != domain.StatusPaid {
		return nil, nil, domain.ErrInvalidLoanState
	}
	rows, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}
	return l, rows, nil
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:             l.LoanID,
		BorrowerID:         l.BorrowerID,
		Principal:          l.Principal,
		RatePercent:        l.RatePercent,
		DurationMonths:     l.DurationMonths,
		Status:             string(l.Status),
		StartDate:          l.StartDate,
		RemainingPrincipal: l.RemainingPrincipal,
		TotalTermInterest:  l.TotalTermInterest,
		CreatedAt:          l.CreatedAt,
	}
}
