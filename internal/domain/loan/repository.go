package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the enclosing tx so
	// at most one payment/approval mutates a loan at a time.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
