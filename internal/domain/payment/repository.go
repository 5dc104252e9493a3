package payment

import "context"

// Repository is append-only: no update or delete, matching the
// ledger-as-source-of-truth model.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// ListByLoanID returns the loan's full ledger ordered by paid_at,
	// then insertion order for same-day payments.
	ListByLoanID(ctx context.Context, loanNumericID uint64) ([]Payment, error)
}
