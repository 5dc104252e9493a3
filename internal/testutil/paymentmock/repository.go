package paymentmock

import (
	"context"

	domain "coopfund-service/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying payment.Repository. The
// zero value behaves like an empty, accepting ledger.
type Repo struct {
	CreateFn       func(ctx context.Context, p *domain.Payment) error
	ListByLoanIDFn func(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanNumericID)
	}
	return nil, nil
}
