package payment

import (
	"context"
	"errors"
	"time"

	domainLoan "coopfund-service/internal/domain/loan"
	domain "coopfund-service/internal/domain/payment"
	"coopfund-service/internal/domain/uow"
	"coopfund-service/internal/engine"
	"coopfund-service/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	loans    domainLoan.Repository
	payments domain.Repository
	uow      uow.UnitOfWork
}

func NewUsecase(loans domainLoan.Repository, payments domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, payments: payments, uow: tx}
}

// Apply records one gross payment against an active loan. Inside the
// loan-locking transaction it replays the ledger into a debt state,
// runs the allocation cascade, appends the immutable payment row,
// refreshes the cached remaining principal, and flips the loan to paid
// once the principal is settled.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ReceiptDTO, error) {
	if in.Amount <= 0 {
		return nil, engine.ErrInvalidAmount
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	var dto *ReceiptDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidLoanState
		}

		rows, err := r.Payments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		state, err := engine.ComputeDebtState(l.Terms(), l.RemainingPrincipal, domain.Ledger(rows), paidAt)
		if err != nil {
			return err
		}
		alloc, err := engine.AllocatePayment(l.Terms(), state, in.Amount)
		if err != nil {
			return err
		}

		p := &domain.Payment{
			PaymentID:     id.NewID32(),
			LoanID:        l.ID,
			Amount:        in.Amount,
			PaidAt:        paidAt,
			PenaltyPaid:   alloc.PenaltyPaid,
			InterestPaid:  alloc.InterestPaid,
			PrincipalPaid: alloc.PrincipalPaid,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		l.RemainingPrincipal = alloc.RemainingPrincipal
		l.SettleIfPaid()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &ReceiptDTO{
			PaymentID:          p.PaymentID,
			LoanID:             l.LoanID,
			Amount:             p.Amount,
			PaidAt:             p.PaidAt,
			PenaltyPaid:        p.PenaltyPaid,
			InterestPaid:       p.InterestPaid,
			PrincipalPaid:      p.PrincipalPaid,
			RemainingPrincipal: l.RemainingPrincipal,
			LoanStatus:         string(l.Status),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// List returns a loan's full ledger, oldest first.
func (u *Usecase) List(ctx context.Context, loanID string) ([]PaymentDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	rows, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, PaymentDTO{
			PaymentID:     p.PaymentID,
			Amount:        p.Amount,
			PaidAt:        p.PaidAt,
			PenaltyPaid:   p.PenaltyPaid,
			InterestPaid:  p.InterestPaid,
			PrincipalPaid: p.PrincipalPaid,
		})
	}
	return out, nil
}
