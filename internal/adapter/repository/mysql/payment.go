package mysql

import (
	"context"

	paymentDomain "coopfund-service/internal/domain/payment"

	"gorm.io/gorm"
)

// PaymentRepository is append-only; there is deliberately no update or
// delete path for ledger rows.
type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("paid_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
