package loanmock

import (
	"context"

	domain "coopfund-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying loan.Repository. Fill in
// only the fields a test needs; unfilled getters report cancellation so
// an unexpected call surfaces as a failure.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn            func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn   func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.Loan, error)
	SaveFn                   func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingByBorrowerID(ctx context.Context, borrowerID string) (*domain.Loan, error) {
	if m.GetPendingByBorrowerIDFn != nil {
		return m.GetPendingByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
