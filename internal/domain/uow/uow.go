package uow

import (
	"context"

	"coopfund-service/internal/domain/loan"
	"coopfund-service/internal/domain/payment"
)

type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
}

// UnitOfWork scopes repository work to one transaction. WithinLoanTx is
// the serialization point the payment flow relies on: it locks the loan
// row before handing it to fn, so two concurrent payment submissions
// against the same loan cannot both read a stale remaining principal.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
